// Package mail is the orchestration core: mailbox directory resolution,
// parallel multi-mailbox retrieval with client-side search and filtering,
// and multi-step batch operations with per-item outcome reporting. All mail
// state lives in the mail application; nothing here caches beyond a single
// call.
package mail

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

// Directory resolves the set of (account, mailbox) pairs visible to the
// user. Each List call re-queries the bridge; nothing is cached between
// calls.
type Directory struct {
	client bridge.Client
	logger *logrus.Logger
}

// NewDirectory creates a mailbox directory over the given bridge client.
func NewDirectory(client bridge.Client, logger *logrus.Logger) *Directory {
	return &Directory{client: client, logger: logger}
}

// List enumerates every enabled account's mailboxes plus any local
// ("On My Mac") mailboxes, deduplicated by (account, mailbox). Inbox-like
// mailboxes carry best-effort message counts (-1 on stat failure). Returns
// either the full set or an error, never partial data.
func (d *Directory) List(ctx context.Context) ([]types.Mailbox, error) {
	accounts, err := d.client.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	var mu sync.Mutex
	var mailboxes []types.Mailbox

	g, gctx := errgroup.WithContext(ctx)
	for _, account := range accounts {
		if !account.Enabled {
			continue
		}
		account := account
		g.Go(func() error {
			names, err := d.client.ListMailboxes(gctx, account.Name)
			if err != nil {
				return fmt.Errorf("listing mailboxes of %q: %w", account.Name, err)
			}
			boxes := d.describe(gctx, account.Name, names)
			mu.Lock()
			mailboxes = append(mailboxes, boxes...)
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		names, err := d.client.ListLocalMailboxes(gctx)
		if err != nil {
			return fmt.Errorf("listing local mailboxes: %w", err)
		}
		boxes := d.describe(gctx, types.LocalAccount, names)
		mu.Lock()
		mailboxes = append(mailboxes, boxes...)
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deduped := dedupeMailboxes(mailboxes)

	// Stable output order: by account, then mailbox name. Fetch order is
	// whatever the concurrent enumeration produced.
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].AccountName != deduped[j].AccountName {
			return deduped[i].AccountName < deduped[j].AccountName
		}
		return deduped[i].Name < deduped[j].Name
	})

	return deduped, nil
}

// describe builds mailbox entries, fetching counts for inbox-like names.
func (d *Directory) describe(ctx context.Context, accountName string, names []string) []types.Mailbox {
	boxes := make([]types.Mailbox, 0, len(names))
	for _, name := range names {
		box := types.Mailbox{
			AccountName:  accountName,
			Name:         name,
			MessageCount: -1,
			UnreadCount:  -1,
		}
		if isInboxName(name) {
			total, unread, err := d.client.MailboxStats(ctx, accountName, name)
			if err != nil {
				d.logger.WithError(err).WithFields(logrus.Fields{
					"account": accountName,
					"mailbox": name,
				}).Debug("Could not read mailbox counts")
			} else {
				box.MessageCount = total
				box.UnreadCount = unread
			}
		}
		boxes = append(boxes, box)
	}
	return boxes
}

// dedupeMailboxes drops repeated (account, mailbox) pairs; local folders and
// account folders can otherwise be reported twice by different enumeration
// paths. First occurrence wins.
func dedupeMailboxes(boxes []types.Mailbox) []types.Mailbox {
	seen := make(map[string]struct{}, len(boxes))
	out := make([]types.Mailbox, 0, len(boxes))
	for _, box := range boxes {
		key := box.AccountName + "\x00" + box.Name
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, box)
	}
	return out
}

func isInboxName(name string) bool {
	return strings.EqualFold(name, "Inbox")
}

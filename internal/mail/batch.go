package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

// FileRequest is one item of a move or copy batch.
type FileRequest struct {
	MessageID         string
	TargetAccountName string
	TargetMailboxName string

	// Optional location hints; a correct hint turns the locate step into a
	// single bridge call.
	AccountHint string
	MailboxHint string
}

// ItemRequest is one item of an archive, trash, read, or mark-read batch;
// targets, where any exist, are implicit.
type ItemRequest struct {
	MessageID   string
	AccountHint string
	MailboxHint string
}

// Coordinator runs batches of independent per-message operations: validate
// targets against a fresh directory snapshot, locate each message, mutate,
// and aggregate itemized outcomes. Location and mutation each re-resolve
// state on the call, so a concurrent actor can still win a race; the bridge
// offers no locking primitive and the coordinator does not pretend otherwise.
type Coordinator struct {
	client    bridge.Client
	directory *Directory
	locator   *Locator
	logger    *logrus.Logger
}

// NewCoordinator creates a batch coordinator.
func NewCoordinator(client bridge.Client, directory *Directory, locator *Locator, logger *logrus.Logger) *Coordinator {
	return &Coordinator{client: client, directory: directory, locator: locator, logger: logger}
}

// snapshot is one directory resolution, used to validate targets before any
// mutating call is issued.
type snapshot []types.Mailbox

func (s snapshot) find(accountName, mailboxName string) (types.Mailbox, bool) {
	for _, box := range s {
		if strings.EqualFold(box.AccountName, accountName) && strings.EqualFold(box.Name, mailboxName) {
			return box, true
		}
	}
	return types.Mailbox{}, false
}

func (s snapshot) hasAccount(accountName string) bool {
	for _, box := range s {
		if strings.EqualFold(box.AccountName, accountName) {
			return true
		}
	}
	return false
}

func (s snapshot) mailboxNames(accountName string) []string {
	var names []string
	for _, box := range s {
		if strings.EqualFold(box.AccountName, accountName) {
			names = append(names, box.Name)
		}
	}
	return names
}

func (s snapshot) accountNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, box := range s {
		if _, dup := seen[box.AccountName]; dup {
			continue
		}
		seen[box.AccountName] = struct{}{}
		names = append(names, box.AccountName)
	}
	return names
}

// describeTarget explains why (account, mailbox) failed validation, naming
// what actually exists so the caller can correct the request.
func (s snapshot) describeTarget(accountName, mailboxName string) string {
	if !s.hasAccount(accountName) {
		return fmt.Sprintf("account %q not found; available accounts: %s",
			accountName, strings.Join(s.accountNames(), ", "))
	}
	return fmt.Sprintf("mailbox %q not found in account %q; available mailboxes: %s",
		mailboxName, accountName, strings.Join(s.mailboxNames(accountName), ", "))
}

// Move relocates each message to its requested target mailbox. The result
// list is positionally aligned to reqs.
func (c *Coordinator) Move(ctx context.Context, reqs []FileRequest) (types.BatchResult, error) {
	return c.file(ctx, reqs, "move", c.client.MoveMessage)
}

// Copy duplicates each message into its requested target mailbox.
func (c *Coordinator) Copy(ctx context.Context, reqs []FileRequest) (types.BatchResult, error) {
	return c.file(ctx, reqs, "copy", c.client.CopyMessage)
}

type fileVerb func(ctx context.Context, accountName, mailboxName, messageID, targetAccount, targetMailbox string) error

func (c *Coordinator) file(ctx context.Context, reqs []FileRequest, verb string, apply fileVerb) (types.BatchResult, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return types.BatchResult{}, err
	}

	return c.run(ctx, len(reqs), func(ctx context.Context, i int) types.BatchItemResult {
		req := reqs[i]
		result := types.BatchItemResult{MessageID: req.MessageID}

		target, ok := snap.find(req.TargetAccountName, req.TargetMailboxName)
		if !ok {
			result.Error = fmt.Sprintf("validation failed: %s", snap.describeTarget(req.TargetAccountName, req.TargetMailboxName))
			return result
		}
		result.Target = target.Ref()

		msg, err := c.locator.Locate(ctx, req.MessageID, req.AccountHint, req.MailboxHint)
		if err != nil {
			result.Error = fmt.Sprintf("not found during %s: %v", verb, err)
			return result
		}
		fillSummary(&result, msg)

		if err := apply(ctx, msg.AccountName, msg.MailboxName, msg.ID, target.AccountName, target.Name); err != nil {
			result.Error = fmt.Sprintf("%s failed: %v", verb, err)
			return result
		}
		result.Success = true
		return result
	}), nil
}

// Trash files each message into its own account's Trash via the bridge's
// delete verb.
func (c *Coordinator) Trash(ctx context.Context, reqs []ItemRequest) (types.BatchResult, error) {
	if err := c.probeDirectory(ctx); err != nil {
		return types.BatchResult{}, err
	}

	return c.run(ctx, len(reqs), func(ctx context.Context, i int) types.BatchItemResult {
		req := reqs[i]
		result := types.BatchItemResult{MessageID: req.MessageID}

		msg, err := c.locator.Locate(ctx, req.MessageID, req.AccountHint, req.MailboxHint)
		if err != nil {
			result.Error = fmt.Sprintf("not found during trash: %v", err)
			return result
		}
		fillSummary(&result, msg)
		result.Target = msg.AccountName + "/Trash"

		if err := c.client.DeleteMessage(ctx, msg.AccountName, msg.MailboxName, msg.ID); err != nil {
			result.Error = fmt.Sprintf("trash failed: %v", err)
			return result
		}
		result.Success = true
		return result
	}), nil
}

// Archive files each message into its own account's Archive. The native
// archive verb is tried first; accounts whose scripting layer lacks one fall
// back to delete-to-Trash, relocate in Trash, move to Archive. A failure at
// any fallback step fails the item.
func (c *Coordinator) Archive(ctx context.Context, reqs []ItemRequest) (types.BatchResult, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return types.BatchResult{}, err
	}

	return c.run(ctx, len(reqs), func(ctx context.Context, i int) types.BatchItemResult {
		req := reqs[i]
		result := types.BatchItemResult{MessageID: req.MessageID}

		msg, err := c.locator.Locate(ctx, req.MessageID, req.AccountHint, req.MailboxHint)
		if err != nil {
			result.Error = fmt.Sprintf("not found during archive: %v", err)
			return result
		}
		fillSummary(&result, msg)
		result.Target = msg.AccountName + "/Archive"

		err = c.client.ArchiveMessage(ctx, msg.AccountName, msg.MailboxName, msg.ID)
		if err == nil {
			result.Success = true
			return result
		}
		if errors.Is(err, bridge.ErrUnavailable) {
			result.Error = fmt.Sprintf("archive failed: %v", err)
			return result
		}

		c.logger.WithError(err).WithField("message_id", msg.ID).Debug("Native archive unavailable, using trash fallback")
		if err := c.archiveViaTrash(ctx, snap, msg); err != nil {
			result.Error = fmt.Sprintf("archive failed: %v", err)
			return result
		}
		result.Success = true
		return result
	}), nil
}

// archiveViaTrash covers accounts without a native archive verb: delete the
// message into Trash, find it there, then move it to Archive.
func (c *Coordinator) archiveViaTrash(ctx context.Context, snap snapshot, msg *types.Message) error {
	trash, ok := snap.find(msg.AccountName, "Trash")
	if !ok {
		return fmt.Errorf("%w: account %q has no Trash mailbox for the fallback", ErrOperationFailed, msg.AccountName)
	}
	archive, ok := snap.find(msg.AccountName, "Archive")
	if !ok {
		return fmt.Errorf("%w: account %q has no Archive mailbox", ErrOperationFailed, msg.AccountName)
	}

	if err := c.client.DeleteMessage(ctx, msg.AccountName, msg.MailboxName, msg.ID); err != nil {
		return fmt.Errorf("moving to Trash: %w", err)
	}
	trashed, err := c.client.FindMessage(ctx, trash.AccountName, trash.Name, msg.ID)
	if err != nil {
		return fmt.Errorf("relocating in Trash: %w", err)
	}
	if err := c.client.MoveMessage(ctx, trashed.AccountName, trashed.MailboxName, trashed.ID, archive.AccountName, archive.Name); err != nil {
		return fmt.Errorf("moving from Trash to Archive: %w", err)
	}
	return nil
}

// MarkRead sets the read flag on each message.
func (c *Coordinator) MarkRead(ctx context.Context, reqs []ItemRequest, read bool) (types.BatchResult, error) {
	if err := c.probeDirectory(ctx); err != nil {
		return types.BatchResult{}, err
	}

	return c.run(ctx, len(reqs), func(ctx context.Context, i int) types.BatchItemResult {
		req := reqs[i]
		result := types.BatchItemResult{MessageID: req.MessageID}

		msg, err := c.locator.Locate(ctx, req.MessageID, req.AccountHint, req.MailboxHint)
		if err != nil {
			result.Error = fmt.Sprintf("not found during mark-read: %v", err)
			return result
		}
		fillSummary(&result, msg)

		if err := c.client.SetReadState(ctx, msg.AccountName, msg.MailboxName, msg.ID, read); err != nil {
			result.Error = fmt.Sprintf("mark-read failed: %v", err)
			return result
		}
		result.Success = true
		return result
	}), nil
}

// Read fetches full content for each message and extracts hyperlinks.
// Duplicate ids are coalesced into a single bridge lookup, but the returned
// list stays positionally aligned to the original request list. Read is
// terminal: it mutates nothing beyond best-effort marking messages read.
func (c *Coordinator) Read(ctx context.Context, reqs []ItemRequest) ([]types.ReadItemResult, error) {
	if err := c.probeDirectory(ctx); err != nil {
		return nil, err
	}

	// Coalesce by id; the first request's hints win.
	order := make([]string, 0, len(reqs))
	unique := make(map[string]ItemRequest, len(reqs))
	for _, req := range reqs {
		if _, dup := unique[req.MessageID]; dup {
			continue
		}
		unique[req.MessageID] = req
		order = append(order, req.MessageID)
	}

	outcomes := make(map[string]types.ReadItemResult, len(unique))
	var mu sync.Mutex

	var g errgroup.Group
	for _, id := range order {
		req := unique[id]
		g.Go(func() error {
			outcome := c.readOne(ctx, req)
			mu.Lock()
			outcomes[req.MessageID] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	results := make([]types.ReadItemResult, len(reqs))
	for i, req := range reqs {
		results[i] = outcomes[req.MessageID]
	}
	return results, nil
}

func (c *Coordinator) readOne(ctx context.Context, req ItemRequest) types.ReadItemResult {
	result := types.ReadItemResult{MessageID: req.MessageID}

	located, err := c.locator.Locate(ctx, req.MessageID, req.AccountHint, req.MailboxHint)
	if err != nil {
		result.Error = fmt.Sprintf("not found: %v", err)
		return result
	}

	full, err := c.client.ReadMessage(ctx, located.AccountName, located.MailboxName, located.ID)
	if err != nil {
		result.Error = fmt.Sprintf("read failed: %v", err)
		return result
	}
	full.Links = extractLinks(full.Content)

	if !full.IsRead {
		if err := c.client.SetReadState(ctx, full.AccountName, full.MailboxName, full.ID, true); err != nil {
			c.logger.WithError(err).WithField("message_id", full.ID).Debug("Could not mark message read")
		} else {
			full.IsRead = true
		}
	}

	result.Success = true
	result.Message = full
	return result
}

// run fans out fn per item and aggregates the positional results.
func (c *Coordinator) run(ctx context.Context, n int, fn func(ctx context.Context, i int) types.BatchItemResult) types.BatchResult {
	items := make([]types.BatchItemResult, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			items[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, item := range items {
		if item.Success {
			succeeded++
		}
	}
	return types.BatchResult{
		Success:   succeeded > 0,
		Requested: n,
		Succeeded: succeeded,
		Items:     items,
	}
}

func (c *Coordinator) snapshot(ctx context.Context) (snapshot, error) {
	boxes, err := c.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving mailbox directory: %w", err)
	}
	return snapshot(boxes), nil
}

// probeDirectory surfaces a global bridge outage before the batch fans out;
// per-item errors stay itemized.
func (c *Coordinator) probeDirectory(ctx context.Context) error {
	_, err := c.snapshot(ctx)
	if err != nil && errors.Is(err, bridge.ErrUnavailable) {
		return err
	}
	return nil
}

func fillSummary(result *types.BatchItemResult, msg *types.Message) {
	result.Message = &types.MessageSummary{
		Subject: msg.Subject,
		Sender:  msg.Sender,
		Date:    msg.Date,
	}
	result.Source = msg.AccountName + "/" + msg.MailboxName
}

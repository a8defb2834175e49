package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

// Locator finds a message's current location by probing mailboxes through
// the bridge.
type Locator struct {
	client bridge.Client
	logger *logrus.Logger
}

// NewLocator creates a message locator.
func NewLocator(client bridge.Client, logger *logrus.Logger) *Locator {
	return &Locator{client: client, logger: logger}
}

// Locate finds the message with the given id. When both hints are supplied
// the hinted mailbox is probed first (a single bridge call); otherwise it
// falls back to a full scan over enabled accounts and the local mailboxes in
// listing order, first match wins. Message ids are assumed unique across
// mailboxes, so scan order only matters when that assumption is violated.
// Per-mailbox probe errors are swallowed; only exhausting every mailbox
// yields ErrNotFound.
func (l *Locator) Locate(ctx context.Context, messageID, accountHint, mailboxHint string) (*types.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("%w: message id is required", ErrValidation)
	}

	if accountHint != "" && mailboxHint != "" {
		msg, err := l.probe(ctx, accountHint, mailboxHint, messageID)
		if err == nil {
			return msg, nil
		}
		if errors.Is(err, bridge.ErrUnavailable) {
			return nil, err
		}
		l.logger.WithFields(logrus.Fields{
			"message_id": messageID,
			"account":    accountHint,
			"mailbox":    mailboxHint,
		}).Debug("Hinted mailbox probe missed, falling back to full scan")
	}

	return l.scan(ctx, messageID)
}

// probe checks a single mailbox.
func (l *Locator) probe(ctx context.Context, accountName, mailboxName, messageID string) (*types.Message, error) {
	msg, err := l.client.FindMessage(ctx, accountName, mailboxName, messageID)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// scan walks every enabled account's mailboxes, then the local mailboxes,
// in listing order.
func (l *Locator) scan(ctx context.Context, messageID string) (*types.Message, error) {
	accounts, err := l.client.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	for _, account := range accounts {
		if !account.Enabled {
			continue
		}
		mailboxes, err := l.client.ListMailboxes(ctx, account.Name)
		if err != nil {
			l.logger.WithError(err).WithField("account", account.Name).Debug("Skipping account during scan")
			continue
		}
		if msg := l.scanMailboxes(ctx, account.Name, mailboxes, messageID); msg != nil {
			return msg, nil
		}
	}

	locals, err := l.client.ListLocalMailboxes(ctx)
	if err == nil {
		if msg := l.scanMailboxes(ctx, types.LocalAccount, locals, messageID); msg != nil {
			return msg, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: message %s", ErrNotFound, messageID)
}

func (l *Locator) scanMailboxes(ctx context.Context, accountName string, mailboxes []string, messageID string) *types.Message {
	for _, mailboxName := range mailboxes {
		if ctx.Err() != nil {
			return nil
		}
		msg, err := l.probe(ctx, accountName, mailboxName, messageID)
		if err != nil {
			continue
		}
		return msg
	}
	return nil
}

package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/internal/retry"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

// DraftRequest describes a draft to compose.
type DraftRequest struct {
	IsReply           bool
	OriginalMessageID string
	// Optional hints for locating the original message of a reply.
	AccountHint string
	MailboxHint string

	ToAddress      string
	Subject        string
	Body           string
	AttachmentPath string
}

// ComposerConfig bounds the read-back poll for reply content, which the
// mail application populates asynchronously.
type ComposerConfig struct {
	ReadAttempts int
	ReadDelay    time.Duration
}

// Composer creates new outgoing messages and replies through the bridge.
type Composer struct {
	client  bridge.Client
	locator *Locator
	logger  *logrus.Logger
	cfg     ComposerConfig
}

// NewComposer creates a draft composer.
func NewComposer(client bridge.Client, locator *Locator, cfg ComposerConfig, logger *logrus.Logger) *Composer {
	return &Composer{client: client, locator: locator, logger: logger, cfg: cfg}
}

// Compose creates the requested draft. Reply drafts locate the original,
// open a reply window, poll for the asynchronously populated quoted content,
// and prepend the caller's body to it. An attachment failure fails the whole
// operation even though the draft was already created: the caller must not
// believe a draft succeeded when a requested attachment was dropped.
func (c *Composer) Compose(ctx context.Context, req DraftRequest) (types.DraftResult, error) {
	if req.IsReply && req.OriginalMessageID == "" {
		return types.DraftResult{}, fmt.Errorf("%w: a reply requires original_message_id", ErrValidation)
	}

	var draftID string
	var err error
	if req.IsReply {
		draftID, err = c.composeReply(ctx, req)
	} else {
		draftID, err = c.client.NewDraft(ctx, req.ToAddress, req.Subject, req.Body)
	}
	if err != nil {
		return types.DraftResult{}, err
	}

	if req.AttachmentPath != "" {
		if err := c.client.AttachFile(ctx, draftID, req.AttachmentPath); err != nil {
			return types.DraftResult{}, fmt.Errorf("%w: draft created but attaching %q failed: %v",
				ErrOperationFailed, req.AttachmentPath, err)
		}
	}

	kind := "draft"
	if req.IsReply {
		kind = "reply draft"
	}
	return types.DraftResult{
		Success: true,
		Message: fmt.Sprintf("Created %s %q", kind, req.Subject),
		DraftID: draftID,
	}, nil
}

func (c *Composer) composeReply(ctx context.Context, req DraftRequest) (string, error) {
	original, err := c.locator.Locate(ctx, req.OriginalMessageID, req.AccountHint, req.MailboxHint)
	if err != nil {
		return "", fmt.Errorf("locating original message: %w", err)
	}

	draftID, err := c.client.ReplyDraft(ctx, original.AccountName, original.MailboxName, original.ID)
	if err != nil {
		return "", fmt.Errorf("opening reply: %w", err)
	}

	// The reply's quoted content appears some time after the window opens.
	quoted, err := retry.Poll(ctx,
		retry.Config{Attempts: c.cfg.ReadAttempts, Delay: c.cfg.ReadDelay},
		func(ctx context.Context) (string, error) {
			return c.client.DraftContent(ctx, draftID)
		},
		func(content string) bool {
			return strings.TrimSpace(content) != ""
		},
	)
	if err != nil {
		if !errors.Is(err, retry.ErrExhausted) {
			return "", fmt.Errorf("reading reply content: %w", err)
		}
		c.logger.WithField("draft_id", draftID).Warn("Reply content never populated, composing without quoted text")
	}

	merged := req.Body
	if quoted != "" {
		merged = req.Body + "\n\n" + quoted
	}
	if err := c.client.SetDraftContent(ctx, draftID, merged); err != nil {
		return "", fmt.Errorf("writing reply body: %w", err)
	}
	return draftID, nil
}

package bridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sebbaker/apple-mcp/pkg/types"
)

// MailClient implements Client on top of a Runner. It owns all script
// construction and result decoding; callers only see typed values and the
// package's sentinel errors.
type MailClient struct {
	runner Runner
	logger *logrus.Logger
}

var _ Client = (*MailClient)(nil)

// NewMailClient creates a bridge client backed by the given runner.
func NewMailClient(runner Runner, logger *logrus.Logger) *MailClient {
	return &MailClient{runner: runner, logger: logger}
}

// CheckHealth probes the mail application, making one launch attempt before
// giving up.
func (c *MailClient) CheckHealth(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, healthScript()); err == nil {
		return nil
	}
	c.logger.Info("Mail application not responding, attempting launch")
	if _, err := c.runner.Run(ctx, launchScript()); err != nil {
		return fmt.Errorf("%w: launch attempt failed: %v", ErrUnavailable, err)
	}
	if _, err := c.runner.Run(ctx, healthScript()); err != nil {
		return fmt.Errorf("%w: unresponsive after launch", ErrUnavailable)
	}
	return nil
}

func (c *MailClient) ListAccounts(ctx context.Context) ([]types.Account, error) {
	raw, err := c.runner.Run(ctx, listAccountsScript())
	if err != nil {
		return nil, err
	}
	var accounts []types.Account
	if err := decodeList(raw, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *MailClient) ListMailboxes(ctx context.Context, accountName string) ([]string, error) {
	raw, err := c.runner.Run(ctx, listMailboxesScript(accountName))
	if err != nil {
		return nil, classifyLookupErr(err)
	}
	var names []string
	if err := decodeList(raw, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *MailClient) ListLocalMailboxes(ctx context.Context) ([]string, error) {
	raw, err := c.runner.Run(ctx, listLocalMailboxesScript())
	if err != nil {
		return nil, err
	}
	var names []string
	if err := decodeList(raw, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *MailClient) MailboxStats(ctx context.Context, accountName, mailboxName string) (int, int, error) {
	raw, err := c.runner.Run(ctx, mailboxStatsScript(accountName, mailboxName))
	if err != nil {
		return -1, -1, classifyLookupErr(err)
	}
	var stats struct {
		Total  int `json:"total"`
		Unread int `json:"unread"`
	}
	if err := decodeObject(raw, &stats); err != nil {
		return -1, -1, err
	}
	return stats.Total, stats.Unread, nil
}

func (c *MailClient) ListMessages(ctx context.Context, accountName, mailboxName string, max int) ([]types.Message, error) {
	raw, err := c.runner.Run(ctx, listMessagesScript(accountName, mailboxName, max))
	if err != nil {
		return nil, classifyLookupErr(err)
	}
	var records []messageRecord
	if err := decodeList(raw, &records); err != nil {
		return nil, err
	}
	messages := make([]types.Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, rec.toMessage(accountName, mailboxName))
	}
	return messages, nil
}

func (c *MailClient) FindMessage(ctx context.Context, accountName, mailboxName, messageID string) (*types.Message, error) {
	return c.fetchMessage(ctx, findMessageScript(accountName, mailboxName, messageID), accountName, mailboxName)
}

func (c *MailClient) ReadMessage(ctx context.Context, accountName, mailboxName, messageID string) (*types.Message, error) {
	return c.fetchMessage(ctx, readMessageScript(accountName, mailboxName, messageID), accountName, mailboxName)
}

func (c *MailClient) fetchMessage(ctx context.Context, script, accountName, mailboxName string) (*types.Message, error) {
	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, classifyLookupErr(err)
	}
	var rec messageRecord
	if err := decodeObject(raw, &rec); err != nil {
		return nil, err
	}
	msg := rec.toMessage(accountName, mailboxName)
	return &msg, nil
}

func (c *MailClient) SetReadState(ctx context.Context, accountName, mailboxName, messageID string, read bool) error {
	return c.runMutation(ctx, setReadStateScript(accountName, mailboxName, messageID, read))
}

func (c *MailClient) MoveMessage(ctx context.Context, accountName, mailboxName, messageID, targetAccount, targetMailbox string) error {
	return c.runMutation(ctx, moveMessageScript(accountName, mailboxName, messageID, targetAccount, targetMailbox))
}

func (c *MailClient) CopyMessage(ctx context.Context, accountName, mailboxName, messageID, targetAccount, targetMailbox string) error {
	return c.runMutation(ctx, copyMessageScript(accountName, mailboxName, messageID, targetAccount, targetMailbox))
}

func (c *MailClient) DeleteMessage(ctx context.Context, accountName, mailboxName, messageID string) error {
	return c.runMutation(ctx, deleteMessageScript(accountName, mailboxName, messageID))
}

func (c *MailClient) ArchiveMessage(ctx context.Context, accountName, mailboxName, messageID string) error {
	raw, err := c.runner.Run(ctx, archiveMessageScript(accountName, mailboxName, messageID))
	if err != nil {
		return classifyLookupErr(err)
	}
	var result struct {
		OK          bool `json:"ok"`
		Unsupported bool `json:"unsupported"`
	}
	if err := decodeObject(raw, &result); err != nil {
		return err
	}
	if result.Unsupported {
		return ErrUnsupported
	}
	return nil
}

func (c *MailClient) NewDraft(ctx context.Context, toAddress, subject, body string) (string, error) {
	return c.runDraft(ctx, newDraftScript(toAddress, subject, body))
}

func (c *MailClient) ReplyDraft(ctx context.Context, accountName, mailboxName, messageID string) (string, error) {
	return c.runDraft(ctx, replyDraftScript(accountName, mailboxName, messageID))
}

func (c *MailClient) runDraft(ctx context.Context, script string) (string, error) {
	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return "", classifyLookupErr(err)
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := decodeObject(raw, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

func (c *MailClient) DraftContent(ctx context.Context, draftID string) (string, error) {
	raw, err := c.runner.Run(ctx, draftContentScript(draftID))
	if err != nil {
		return "", classifyLookupErr(err)
	}
	var result struct {
		Content string `json:"content"`
	}
	if err := decodeObject(raw, &result); err != nil {
		return "", err
	}
	return result.Content, nil
}

func (c *MailClient) SetDraftContent(ctx context.Context, draftID, content string) error {
	return c.runMutation(ctx, setDraftContentScript(draftID, content))
}

func (c *MailClient) AttachFile(ctx context.Context, draftID, path string) error {
	return c.runMutation(ctx, attachFileScript(draftID, path))
}

func (c *MailClient) runMutation(ctx context.Context, script string) error {
	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return classifyLookupErr(err)
	}
	var result struct {
		OK bool `json:"ok"`
	}
	return decodeObject(raw, &result)
}

// classifyLookupErr maps the script-level "not found" throws onto ErrNotFound
// while leaving connectivity failures labeled ErrUnavailable.
func classifyLookupErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "message not found") ||
		strings.Contains(msg, "draft not found") ||
		strings.Contains(msg, "can't get object") ||
		strings.Contains(msg, "invalid index") {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

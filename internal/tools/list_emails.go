package tools

import (
	"context"
	"fmt"

	"github.com/sebbaker/apple-mcp/internal/mail"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

// ListEmailsTool lists messages from one or more mailboxes with optional
// search, read/flagged filters, and a result limit.
type ListEmailsTool struct {
	deps Deps
}

// NewListEmailsTool creates a new list emails tool
func NewListEmailsTool(deps Deps) *ListEmailsTool {
	return &ListEmailsTool{deps: deps}
}

// Name returns the tool name
func (t *ListEmailsTool) Name() string {
	return "list_emails"
}

// Description returns the tool description
func (t *ListEmailsTool) Description() string {
	return "List emails. Defaults to every account's Inbox; narrow with account_name and/or mailbox_name, rank with search_term, filter by read/flagged state"
}

// InputSchema returns the JSON schema for tool inputs
func (t *ListEmailsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"search_term": map[string]interface{}{
				"type":        "string",
				"description": "Optional: fuzzy-match against subject and sender; non-matches are dropped",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Optional: maximum results (default 25; 0 or negative for no cap)",
			},
			"account_name": map[string]interface{}{
				"type":        "string",
				"description": "Optional: restrict to one account (its Inbox unless mailbox_name is also given)",
			},
			"mailbox_name": map[string]interface{}{
				"type":        "string",
				"description": "Optional: mailbox name; without account_name, matches the name across all accounts",
			},
			"is_read": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: keep only read (true) or unread (false) messages",
			},
			"is_flagged": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: keep only flagged (true) or unflagged (false) messages",
			},
		},
	}
}

// Execute executes the tool
func (t *ListEmailsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	opts := mail.QueryOptions{
		SearchTerm:  strParam(params, "search_term"),
		Limit:       intParam(params, "limit"),
		AccountName: strParam(params, "account_name"),
		MailboxName: strParam(params, "mailbox_name"),
		IsRead:      boolParam(params, "is_read"),
		IsFlagged:   boolParam(params, "is_flagged"),
	}

	messages, err := t.deps.QueryEngine.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}

	summary := fmt.Sprintf("Found %d emails", len(messages))
	if opts.SearchTerm != "" {
		summary = fmt.Sprintf("Found %d emails matching %q", len(messages), opts.SearchTerm)
	}

	return struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Emails  []types.Message `json:"emails"`
	}{
		Success: true,
		Message: summary,
		Emails:  messages,
	}, nil
}

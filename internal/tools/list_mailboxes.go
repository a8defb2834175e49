package tools

import (
	"context"
	"fmt"

	"github.com/sebbaker/apple-mcp/pkg/types"
)

// ListMailboxesTool enumerates every visible (account, mailbox) pair.
type ListMailboxesTool struct {
	deps Deps
}

// NewListMailboxesTool creates a new list mailboxes tool
func NewListMailboxesTool(deps Deps) *ListMailboxesTool {
	return &ListMailboxesTool{deps: deps}
}

// Name returns the tool name
func (t *ListMailboxesTool) Name() string {
	return "list_mailboxes"
}

// Description returns the tool description
func (t *ListMailboxesTool) Description() string {
	return "List every mailbox of every enabled Mail account, plus local (On My Mac) mailboxes; inboxes include message counts"
}

// InputSchema returns the JSON schema for tool inputs
func (t *ListMailboxesTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// Execute executes the tool
func (t *ListMailboxesTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	mailboxes, err := t.deps.Directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mailboxes: %w", err)
	}

	return struct {
		Success   bool            `json:"success"`
		Message   string          `json:"message"`
		Mailboxes []types.Mailbox `json:"mailboxes"`
	}{
		Success:   true,
		Message:   fmt.Sprintf("Found %d mailboxes", len(mailboxes)),
		Mailboxes: mailboxes,
	}, nil
}

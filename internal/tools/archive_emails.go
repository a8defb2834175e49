package tools

import (
	"context"
	"fmt"
)

// ArchiveEmailsTool files one or more emails into their own account's
// Archive mailbox.
type ArchiveEmailsTool struct {
	deps Deps
}

// NewArchiveEmailsTool creates a new archive emails tool
func NewArchiveEmailsTool(deps Deps) *ArchiveEmailsTool {
	return &ArchiveEmailsTool{deps: deps}
}

// Name returns the tool name
func (t *ArchiveEmailsTool) Name() string {
	return "archive_emails"
}

// Description returns the tool description
func (t *ArchiveEmailsTool) Description() string {
	return "Archive one or more emails into their own account's Archive mailbox"
}

// InputSchema returns the JSON schema for tool inputs
func (t *ArchiveEmailsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"messages": messagesSchema(false),
		},
		"required": []string{"messages"},
	}
}

// Execute executes the tool
func (t *ArchiveEmailsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	reqs, err := itemRequests(params)
	if err != nil {
		return nil, err
	}
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	result, err := t.deps.Coordinator.Archive(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to archive emails: %w", err)
	}
	return respondBatch("Archived", result), nil
}

package tools

import (
	"context"
	"fmt"
)

// TrashEmailsTool files one or more emails into their own account's Trash.
type TrashEmailsTool struct {
	deps Deps
}

// NewTrashEmailsTool creates a new trash emails tool
func NewTrashEmailsTool(deps Deps) *TrashEmailsTool {
	return &TrashEmailsTool{deps: deps}
}

// Name returns the tool name
func (t *TrashEmailsTool) Name() string {
	return "trash_emails"
}

// Description returns the tool description
func (t *TrashEmailsTool) Description() string {
	return "Move one or more emails to their own account's Trash"
}

// InputSchema returns the JSON schema for tool inputs
func (t *TrashEmailsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"messages": messagesSchema(false),
		},
		"required": []string{"messages"},
	}
}

// Execute executes the tool
func (t *TrashEmailsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	reqs, err := itemRequests(params)
	if err != nil {
		return nil, err
	}
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	result, err := t.deps.Coordinator.Trash(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to trash emails: %w", err)
	}
	return respondBatch("Trashed", result), nil
}

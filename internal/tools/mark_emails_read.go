package tools

import (
	"context"
	"fmt"
)

// MarkEmailsReadTool sets the read flag on one or more emails.
type MarkEmailsReadTool struct {
	deps Deps
}

// NewMarkEmailsReadTool creates a new mark emails read tool
func NewMarkEmailsReadTool(deps Deps) *MarkEmailsReadTool {
	return &MarkEmailsReadTool{deps: deps}
}

// Name returns the tool name
func (t *MarkEmailsReadTool) Name() string {
	return "mark_emails_read"
}

// Description returns the tool description
func (t *MarkEmailsReadTool) Description() string {
	return "Mark one or more emails as read (or unread with read=false)"
}

// InputSchema returns the JSON schema for tool inputs
func (t *MarkEmailsReadTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"messages": messagesSchema(false),
			"read": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: desired read state (default true)",
			},
		},
		"required": []string{"messages"},
	}
}

// Execute executes the tool
func (t *MarkEmailsReadTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	reqs, err := itemRequests(params)
	if err != nil {
		return nil, err
	}
	read := true
	if b := boolParam(params, "read"); b != nil {
		read = *b
	}
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	result, err := t.deps.Coordinator.MarkRead(ctx, reqs, read)
	if err != nil {
		return nil, fmt.Errorf("failed to update read state: %w", err)
	}
	verb := "Marked read"
	if !read {
		verb = "Marked unread"
	}
	return respondBatch(verb, result), nil
}

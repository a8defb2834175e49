package tools

import (
	"context"
	"fmt"
)

// CopyEmailsTool duplicates one or more emails into a target mailbox.
type CopyEmailsTool struct {
	deps Deps
}

// NewCopyEmailsTool creates a new copy emails tool
func NewCopyEmailsTool(deps Deps) *CopyEmailsTool {
	return &CopyEmailsTool{deps: deps}
}

// Name returns the tool name
func (t *CopyEmailsTool) Name() string {
	return "copy_emails"
}

// Description returns the tool description
func (t *CopyEmailsTool) Description() string {
	return "Copy one or more emails into a target mailbox, leaving the originals in place"
}

// InputSchema returns the JSON schema for tool inputs
func (t *CopyEmailsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"messages": messagesSchema(true),
			"target_account_name": map[string]interface{}{
				"type":        "string",
				"description": "Default target account for items that do not set their own",
			},
			"target_mailbox_name": map[string]interface{}{
				"type":        "string",
				"description": "Default target mailbox for items that do not set their own",
			},
		},
	}
}

// Execute executes the tool
func (t *CopyEmailsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	reqs, err := fileRequests(params)
	if err != nil {
		return nil, err
	}
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	result, err := t.deps.Coordinator.Copy(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to copy emails: %w", err)
	}
	return respondBatch("Copied", result), nil
}

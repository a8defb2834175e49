package tools

import (
	"context"
	"fmt"
)

// MoveEmailsTool moves one or more emails into a target mailbox.
type MoveEmailsTool struct {
	deps Deps
}

// NewMoveEmailsTool creates a new move emails tool
func NewMoveEmailsTool(deps Deps) *MoveEmailsTool {
	return &MoveEmailsTool{deps: deps}
}

// Name returns the tool name
func (t *MoveEmailsTool) Name() string {
	return "move_emails"
}

// Description returns the tool description
func (t *MoveEmailsTool) Description() string {
	return "Move one or more emails to a target mailbox; targets are validated against the live mailbox directory before anything moves"
}

// InputSchema returns the JSON schema for tool inputs
func (t *MoveEmailsTool) InputSchema() map[string]interface{} {
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
func (t *MoveEmailsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	reqs, err := fileRequests(params)
	if err != nil {
		return nil, err
	}
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	result, err := t.deps.Coordinator.Move(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to move emails: %w", err)
	}
	return respondBatch("Moved", result), nil
}

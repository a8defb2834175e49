package tools

import (
	"context"
	"fmt"

	"github.com/sebbaker/apple-mcp/pkg/types"
)

// ReadEmailsTool fetches full content for a batch of messages, extracting
// hyperlinks from each body.
type ReadEmailsTool struct {
	deps Deps
}

// NewReadEmailsTool creates a new read emails tool
func NewReadEmailsTool(deps Deps) *ReadEmailsTool {
	return &ReadEmailsTool{deps: deps}
}

// Name returns the tool name
func (t *ReadEmailsTool) Name() string {
	return "read_emails"
}

// Description returns the tool description
func (t *ReadEmailsTool) Description() string {
	return "Read full content (including extracted hyperlinks) of one or more emails by message id"
}

// InputSchema returns the JSON schema for tool inputs
func (t *ReadEmailsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"messages": messagesSchema(false),
		},
		"required": []string{"messages"},
	}
}

// Execute executes the tool
func (t *ReadEmailsTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	reqs, err := itemRequests(params)
	if err != nil {
		return nil, err
	}
	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	results, err := t.deps.Coordinator.Read(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to read emails: %w", err)
	}

	succeeded := 0
	for _, item := range results {
		if item.Success {
			succeeded++
		}
	}

	return struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Results []types.ReadItemResult `json:"results"`
	}{
		Success: succeeded > 0,
		Message: fmt.Sprintf("Read %d of %d emails", succeeded, len(results)),
		Results: results,
	}, nil
}

package tools

import (
	"context"
	"fmt"

	"github.com/sebbaker/apple-mcp/internal/mail"
)

// CreateDraftTool composes a new outgoing message or a reply.
type CreateDraftTool struct {
	deps Deps
}

// NewCreateDraftTool creates a new create draft tool
func NewCreateDraftTool(deps Deps) *CreateDraftTool {
	return &CreateDraftTool{deps: deps}
}

// Name returns the tool name
func (t *CreateDraftTool) Name() string {
	return "create_draft"
}

// Description returns the tool description
func (t *CreateDraftTool) Description() string {
	return "Create a draft email or a reply to an existing message, optionally attaching a file; the draft is left open in Mail for review"
}

// InputSchema returns the JSON schema for tool inputs
func (t *CreateDraftTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"is_reply": map[string]interface{}{
				"type":        "boolean",
				"description": "Optional: compose a reply instead of a new message",
			},
			"original_message_id": map[string]interface{}{
				"type":        "string",
				"description": "Required when is_reply: id of the message being replied to",
			},
			"account_name": map[string]interface{}{
				"type":        "string",
				"description": "Optional: account the original message is believed to be in",
			},
			"mailbox_name": map[string]interface{}{
				"type":        "string",
				"description": "Optional: mailbox the original message is believed to be in",
			},
			"to_address": map[string]interface{}{
				"type":        "string",
				"description": "Optional: recipient address for a new message",
			},
			"subject": map[string]interface{}{
				"type":        "string",
				"description": "Draft subject",
			},
			"body": map[string]interface{}{
				"type":        "string",
				"description": "Draft body; for replies it is prepended to the quoted content",
			},
			"attachment_path": map[string]interface{}{
				"type":        "string",
				"description": "Optional: filesystem path of a file to attach",
			},
		},
		"required": []string{"subject", "body"},
	}
}

// Execute executes the tool
func (t *CreateDraftTool) Execute(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	req := mail.DraftRequest{
		OriginalMessageID: strParam(params, "original_message_id"),
		AccountHint:       strParam(params, "account_name"),
		MailboxHint:       strParam(params, "mailbox_name"),
		ToAddress:         strParam(params, "to_address"),
		Subject:           strParam(params, "subject"),
		Body:              strParam(params, "body"),
		AttachmentPath:    strParam(params, "attachment_path"),
	}
	if b := boolParam(params, "is_reply"); b != nil {
		req.IsReply = *b
	}

	// A reply without its original fails before any bridge call.
	if req.IsReply && req.OriginalMessageID == "" {
		return nil, fmt.Errorf("%w: original_message_id is required when is_reply is set", mail.ErrValidation)
	}

	if err := t.deps.Readiness.Ensure(ctx); err != nil {
		return nil, err
	}

	result, err := t.deps.Composer.Compose(ctx, req)
	if err != nil {
		return nil, err
	}
	return result, nil
}

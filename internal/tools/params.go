package tools

import (
	"fmt"
	"strconv"

	"github.com/sebbaker/apple-mcp/internal/mail"
)

// Tool arguments arrive as decoded JSON; helpers below tolerate the usual
// agent sloppiness (numbers as strings, booleans as strings, single item in
// place of a batch).

func strParam(params map[string]interface{}, key string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

func boolParam(params map[string]interface{}, key string) *bool {
	switch v := params[key].(type) {
	case bool:
		return &v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

func intParam(params map[string]interface{}, key string) *int {
	switch v := params[key].(type) {
	case float64:
		i := int(v)
		return &i
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return &i
		}
	}
	return nil
}

// itemRequests reads the "messages" batch array, accepting a bare
// "message_id" as a batch of one.
func itemRequests(params map[string]interface{}) ([]mail.ItemRequest, error) {
	raw, ok := params["messages"].([]interface{})
	if !ok {
		if id := strParam(params, "message_id"); id != "" {
			return []mail.ItemRequest{{
				MessageID:   id,
				AccountHint: strParam(params, "account_name"),
				MailboxHint: strParam(params, "mailbox_name"),
			}}, nil
		}
		return nil, fmt.Errorf("messages array (or message_id) is required")
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("messages array must not be empty")
	}

	reqs := make([]mail.ItemRequest, 0, len(raw))
	for i, entry := range raw {
		item, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("messages[%d]: expected an object", i)
		}
		id := strParam(item, "message_id")
		if id == "" {
			return nil, fmt.Errorf("messages[%d]: message_id is required", i)
		}
		reqs = append(reqs, mail.ItemRequest{
			MessageID:   id,
			AccountHint: strParam(item, "account_name"),
			MailboxHint: strParam(item, "mailbox_name"),
		})
	}
	return reqs, nil
}

// fileRequests reads the move/copy batch array, which additionally carries
// target coordinates per item. Top-level target fields act as defaults so a
// single-message call does not need the array form.
func fileRequests(params map[string]interface{}) ([]mail.FileRequest, error) {
	defaultAccount := strParam(params, "target_account_name")
	defaultMailbox := strParam(params, "target_mailbox_name")

	raw, ok := params["messages"].([]interface{})
	if !ok {
		id := strParam(params, "message_id")
		if id == "" {
			return nil, fmt.Errorf("messages array (or message_id) is required")
		}
		if defaultAccount == "" || defaultMailbox == "" {
			return nil, fmt.Errorf("target_account_name and target_mailbox_name are required")
		}
		return []mail.FileRequest{{
			MessageID:         id,
			TargetAccountName: defaultAccount,
			TargetMailboxName: defaultMailbox,
			AccountHint:       strParam(params, "account_name"),
			MailboxHint:       strParam(params, "mailbox_name"),
		}}, nil
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("messages array must not be empty")
	}

	reqs := make([]mail.FileRequest, 0, len(raw))
	for i, entry := range raw {
		item, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("messages[%d]: expected an object", i)
		}
		req := mail.FileRequest{
			MessageID:         strParam(item, "message_id"),
			TargetAccountName: strParam(item, "target_account_name"),
			TargetMailboxName: strParam(item, "target_mailbox_name"),
			AccountHint:       strParam(item, "account_name"),
			MailboxHint:       strParam(item, "mailbox_name"),
		}
		if req.MessageID == "" {
			return nil, fmt.Errorf("messages[%d]: message_id is required", i)
		}
		if req.TargetAccountName == "" {
			req.TargetAccountName = defaultAccount
		}
		if req.TargetMailboxName == "" {
			req.TargetMailboxName = defaultMailbox
		}
		if req.TargetAccountName == "" || req.TargetMailboxName == "" {
			return nil, fmt.Errorf("messages[%d]: target_account_name and target_mailbox_name are required", i)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Shared schema fragments.

func messagesSchema(withTargets bool) map[string]interface{} {
	props := map[string]interface{}{
		"message_id": map[string]interface{}{
			"type":        "string",
			"description": "Message id",
		},
		"account_name": map[string]interface{}{
			"type":        "string",
			"description": "Optional: account the message is believed to be in",
		},
		"mailbox_name": map[string]interface{}{
			"type":        "string",
			"description": "Optional: mailbox the message is believed to be in",
		},
	}
	required := []string{"message_id"}
	if withTargets {
		props["target_account_name"] = map[string]interface{}{
			"type":        "string",
			"description": "Account owning the target mailbox",
		}
		props["target_mailbox_name"] = map[string]interface{}{
			"type":        "string",
			"description": "Target mailbox name",
		}
	}
	return map[string]interface{}{
		"type":        "array",
		"description": "Batch of messages; results are returned in the same order",
		"items": map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
}

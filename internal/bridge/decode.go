package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sebbaker/apple-mcp/pkg/types"
)

// The bridge returns one of four shapes: a JSON object, a JSON array, a
// JSON-encoded string that itself contains JSON (osascript sometimes quotes
// its own output), or plain non-JSON text. The decoders below accept all
// four and collapse the rest into ErrParse.

// unquoteOnce strips one level of JSON string encoding if present.
func unquoteOnce(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, `"`) {
		return trimmed
	}
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
		return trimmed
	}
	return strings.TrimSpace(inner)
}

// decodeObject decodes a single record. A one-element array also counts.
func decodeObject(raw string, v interface{}) error {
	payload := unquoteOnce(raw)
	if strings.HasPrefix(payload, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(payload), &items); err != nil || len(items) != 1 {
			return fmt.Errorf("%w: expected one record, got %q", ErrParse, snippet(raw))
		}
		payload = string(items[0])
	}
	if !strings.HasPrefix(payload, "{") {
		return fmt.Errorf("%w: expected record, got %q", ErrParse, snippet(raw))
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

// decodeList decodes a list of records. A bare object counts as a
// single-element list; an empty payload counts as an empty list.
func decodeList(raw string, v interface{}) error {
	payload := unquoteOnce(raw)
	switch {
	case payload == "" || payload == "null":
		payload = "[]"
	case strings.HasPrefix(payload, "{"):
		payload = "[" + payload + "]"
	case !strings.HasPrefix(payload, "["):
		return fmt.Errorf("%w: expected list, got %q", ErrParse, snippet(raw))
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

func snippet(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}

// Date layouts the mail application's scripting layer has been seen to emit.
// JXA stringifies dates in JavaScript toString form; AppleScript-era bridges
// used long-form locale text.
var dateLayouts = []string{
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Monday, January 2, 2006 at 3:04:05 PM",
	"January 2, 2006 at 3:04:05 PM",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// parseDate parses the bridge's native date text. Returns nil when the text
// matches no known layout; undated messages sort as the oldest.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// JavaScript toString appends a parenthesized zone name; drop it.
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// messageRecord is the shape the message scripts emit.
type messageRecord struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Sender       string `json:"sender"`
	DateReceived string `json:"dateReceived"`
	Read         bool   `json:"read"`
	Flagged      bool   `json:"flagged"`
	Content      string `json:"content"`
}

func (r messageRecord) toMessage(accountName, mailboxName string) types.Message {
	return types.Message{
		ID:          r.ID,
		Subject:     r.Subject,
		Sender:      r.Sender,
		Date:        parseDate(r.DateReceived),
		IsRead:      r.Read,
		IsFlagged:   r.Flagged,
		AccountName: accountName,
		MailboxName: mailboxName,
		Content:     r.Content,
	}
}

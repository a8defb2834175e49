package types

import "time"

// Account represents a Mail.app account.
type Account struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// LocalAccount is the synthetic account name assigned to mailboxes that live
// outside any account container ("On My Mac" folders).
const LocalAccount = "Local"

// Mailbox is a named folder of messages. The (AccountName, Name) pair is
// unique within the visible set; Name alone is not unique across accounts.
type Mailbox struct {
	AccountName string `json:"account_name"`
	Name        string `json:"name"`

	// MessageCount and UnreadCount are best-effort snapshots filled in for
	// inbox-like mailboxes only; -1 when the count could not be computed.
	MessageCount int `json:"message_count"`
	UnreadCount  int `json:"unread_count"`
}

// Ref returns the "account/mailbox" form used in tool responses and error text.
func (m Mailbox) Ref() string {
	return m.AccountName + "/" + m.Name
}

// Link is a hyperlink extracted from a message body.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Message is an email message as seen through the scripting bridge.
// AccountName and MailboxName record where the message was located by
// whichever component found it.
type Message struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Sender      string     `json:"sender"`
	Date        *time.Time `json:"date_received,omitempty"`
	IsRead      bool       `json:"is_read"`
	IsFlagged   bool       `json:"is_flagged"`
	AccountName string     `json:"account_name,omitempty"`
	MailboxName string     `json:"mailbox_name,omitempty"`

	// Content and Links are populated only when the message is fully read.
	Content string `json:"content,omitempty"`
	Links   []Link `json:"links,omitempty"`
}

// MessageSummary is the captured metadata carried on batch results: what was
// known about the message before the mutating step ran.
type MessageSummary struct {
	Subject string     `json:"subject"`
	Sender  string     `json:"sender"`
	Date    *time.Time `json:"date_received,omitempty"`
}

// BatchItemResult is the outcome of one request item in a batch operation.
// The result list of a batch is always the same length and order as the
// request list, so callers can zip them positionally.
type BatchItemResult struct {
	MessageID string          `json:"message_id"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Message   *MessageSummary `json:"message,omitempty"`
	Source    string          `json:"source,omitempty"`
	Target    string          `json:"target,omitempty"`
}

// BatchResult aggregates a batch operation. Success is true iff at least one
// item succeeded; callers must inspect Items for per-item accuracy.
type BatchResult struct {
	Success   bool              `json:"success"`
	Requested int               `json:"requested"`
	Succeeded int               `json:"succeeded"`
	Items     []BatchItemResult `json:"items"`
}

// ReadItemResult is the outcome of one item in a batch read.
type ReadItemResult struct {
	MessageID string   `json:"message_id"`
	Success   bool     `json:"success"`
	Error     string   `json:"error,omitempty"`
	Message   *Message `json:"message,omitempty"`
}

// DraftResult is the outcome of a draft composition.
type DraftResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DraftID string `json:"draft_id,omitempty"`
}

// Package bridge adapts the Mail.app scripting interface into a narrow,
// typed client the orchestration layer can depend on. All script text
// generation and result parsing lives here; nothing above this package ever
// sees raw script output.
package bridge

import (
	"context"
	"errors"

	"github.com/sebbaker/apple-mcp/pkg/types"
)

// Sentinel errors for the bridge package.
// Use errors.Is() to check for these errors.
var (
	// ErrUnavailable is returned when Mail.app cannot be reached or launched.
	ErrUnavailable = errors.New("bridge: mail application unavailable")

	// ErrNotFound is returned when an account, mailbox, or message does not
	// exist on the far side of the bridge.
	ErrNotFound = errors.New("bridge: not found")

	// ErrParse is returned when the bridge produced output that does not
	// match the expected structured shape.
	ErrParse = errors.New("bridge: unparseable result")

	// ErrUnsupported is returned when the scripting layer for an account
	// lacks the requested verb (e.g. no native archive).
	ErrUnsupported = errors.New("bridge: operation not supported")
)

// Runner executes one script against the mail application and returns its
// raw textual output. Calls are slow (hundreds of milliseconds to seconds)
// and may fail non-deterministically.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// DirectoryReader enumerates accounts and mailboxes.
type DirectoryReader interface {
	ListAccounts(ctx context.Context) ([]types.Account, error)
	ListMailboxes(ctx context.Context, accountName string) ([]string, error)
	ListLocalMailboxes(ctx context.Context) ([]string, error)
	MailboxStats(ctx context.Context, accountName, mailboxName string) (total, unread int, err error)
}

// MessageReader reads messages without mutating them.
type MessageReader interface {
	// ListMessages returns up to max of the most recently indexed messages
	// in the mailbox, headers only.
	ListMessages(ctx context.Context, accountName, mailboxName string, max int) ([]types.Message, error)

	// FindMessage probes a single mailbox for a message id.
	// Returns ErrNotFound when the mailbox does not contain it.
	FindMessage(ctx context.Context, accountName, mailboxName, messageID string) (*types.Message, error)

	// ReadMessage is FindMessage plus full content.
	ReadMessage(ctx context.Context, accountName, mailboxName, messageID string) (*types.Message, error)
}

// MessageWriter performs the bridge's mutating primitives.
type MessageWriter interface {
	SetReadState(ctx context.Context, accountName, mailboxName, messageID string, read bool) error
	MoveMessage(ctx context.Context, accountName, mailboxName, messageID, targetAccount, targetMailbox string) error
	CopyMessage(ctx context.Context, accountName, mailboxName, messageID, targetAccount, targetMailbox string) error

	// DeleteMessage is the bridge's delete verb; Mail.app files the message
	// into the account's Trash rather than destroying it.
	DeleteMessage(ctx context.Context, accountName, mailboxName, messageID string) error

	// ArchiveMessage invokes the native archive verb where one exists.
	// Returns ErrUnsupported for accounts whose scripting layer lacks it.
	ArchiveMessage(ctx context.Context, accountName, mailboxName, messageID string) error
}

// DraftWriter drives outgoing-message composition.
type DraftWriter interface {
	// NewDraft opens a new outgoing message and returns its draft id.
	// toAddress may be empty.
	NewDraft(ctx context.Context, toAddress, subject, body string) (string, error)

	// ReplyDraft opens a reply window for an existing message and returns
	// the reply draft's id. The quoted content is populated asynchronously
	// by the mail application.
	ReplyDraft(ctx context.Context, accountName, mailboxName, messageID string) (string, error)

	DraftContent(ctx context.Context, draftID string) (string, error)
	SetDraftContent(ctx context.Context, draftID, content string) error
	AttachFile(ctx context.Context, draftID, path string) error
}

// Client is the full capability surface the orchestration core uses. The
// osascript-backed implementation and the test fakes both satisfy it.
type Client interface {
	// CheckHealth verifies the mail application is reachable, making one
	// launch attempt if it is not. Returns ErrUnavailable on failure.
	CheckHealth(ctx context.Context) error

	DirectoryReader
	MessageReader
	MessageWriter
	DraftWriter
}

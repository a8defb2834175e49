package mail

import (
	"errors"
	"fmt"

	"github.com/sebbaker/apple-mcp/internal/bridge"
)

// Sentinel errors for the mail orchestration core.
// Use errors.Is() to check for these errors.
//
// ErrNotFound wraps the bridge-level "not found" so errors.Is matches both
// layers, the same way validation failures stay distinguishable from the
// bridge's own operation errors.
var (
	// ErrNotFound is returned when an account, mailbox, or message cannot
	// be found. Per-item in batches, never fatal to the whole batch.
	ErrNotFound = fmt.Errorf("mail: %w", bridge.ErrNotFound)

	// ErrNoInbox is returned when an account has no case-insensitive
	// "Inbox" mailbox to default to.
	ErrNoInbox = errors.New("mail: no inbox found")

	// ErrValidation is returned when a request references a target that
	// does not exist; it short-circuits before any mutating bridge call.
	ErrValidation = errors.New("mail: validation failed")

	// ErrOperationFailed is returned when the bridge's mutating call itself
	// failed (permissions, already moved, vanished mid-operation).
	ErrOperationFailed = errors.New("mail: operation failed")
)

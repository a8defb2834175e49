// Package bridgetest provides an in-memory bridge.Client for orchestration
// tests. It models enough Mail.app behavior (mailbox containment, moves,
// trash, drafts with asynchronously appearing reply content) to exercise the
// core without a real scripting bridge, and records every call so tests can
// assert what was and was not issued.
package bridgetest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

// Draft is an in-memory outgoing message.
type Draft struct {
	ID          string
	To          string
	Subject     string
	Content     string
	Attachments []string

	// pendingReads counts DraftContent calls that still observe empty
	// content before the quoted text "arrives".
	pendingReads int
	quoted       string
}

// Fake implements bridge.Client in memory.
type Fake struct {
	mu sync.Mutex

	Accounts     []types.Account
	MailboxNames map[string][]string       // account name (incl. types.LocalAccount) -> mailbox names
	Messages     map[string][]types.Message // "account/mailbox" -> messages

	// Error injection.
	HealthErr       error
	ListAccountsErr error
	MailboxesErr    map[string]error // account -> error
	StatsErr        map[string]error // "account/mailbox" -> error
	FetchErr        map[string]error // "account/mailbox" -> error
	MoveErr         error
	CopyErr         error
	DeleteErr       error
	ArchiveErr      error
	SetReadErr      error
	AttachErr       error
	FindErr         map[string]error // "account/mailbox" -> error on probes

	// NativeArchive enables the archive verb; when false ArchiveMessage
	// reports bridge.ErrUnsupported.
	NativeArchive bool

	// ReplyQuoted is the quoted content a reply draft eventually exposes;
	// QuotedAfterReads is how many DraftContent calls observe it empty
	// first.
	ReplyQuoted      string
	QuotedAfterReads int

	Drafts    map[string]*Draft
	nextDraft int

	calls []string
}

var _ bridge.Client = (*Fake)(nil)

// New returns an empty fake ready for population.
func New() *Fake {
	return &Fake{
		MailboxNames: make(map[string][]string),
		Messages:     make(map[string][]types.Message),
		Drafts:       make(map[string]*Draft),
	}
}

// AddMailbox registers a mailbox, creating the account if needed.
func (f *Fake) AddMailbox(accountName, mailboxName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if accountName != types.LocalAccount && !f.hasAccount(accountName) {
		f.Accounts = append(f.Accounts, types.Account{Name: accountName, Enabled: true})
	}
	f.MailboxNames[accountName] = append(f.MailboxNames[accountName], mailboxName)
	key := accountName + "/" + mailboxName
	if _, ok := f.Messages[key]; !ok {
		f.Messages[key] = nil
	}
}

// AddMessage places a message into a registered mailbox.
func (f *Fake) AddMessage(accountName, mailboxName string, msg types.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.AccountName = accountName
	msg.MailboxName = mailboxName
	key := accountName + "/" + mailboxName
	f.Messages[key] = append(f.Messages[key], msg)
}

func (f *Fake) hasAccount(name string) bool {
	for _, a := range f.Accounts {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Calls returns the recorded calls whose first token equals op, or all calls
// when op is empty.
func (f *Fake) Calls(op string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if op == "" {
		return append([]string(nil), f.calls...)
	}
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, op+" ") || c == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *Fake) CheckHealth(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("health")
	return f.HealthErr
}

func (f *Fake) ListAccounts(ctx context.Context) ([]types.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("listAccounts")
	if f.ListAccountsErr != nil {
		return nil, f.ListAccountsErr
	}
	return append([]types.Account(nil), f.Accounts...), nil
}

func (f *Fake) ListMailboxes(ctx context.Context, accountName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("listMailboxes %s", accountName)
	if err := f.MailboxesErr[accountName]; err != nil {
		return nil, err
	}
	names, ok := f.MailboxNames[accountName]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", bridge.ErrNotFound, accountName)
	}
	return append([]string(nil), names...), nil
}

func (f *Fake) ListLocalMailboxes(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("listLocalMailboxes")
	return append([]string(nil), f.MailboxNames[types.LocalAccount]...), nil
}

func (f *Fake) MailboxStats(ctx context.Context, accountName, mailboxName string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := accountName + "/" + mailboxName
	f.record("stats %s", key)
	if err := f.StatsErr[key]; err != nil {
		return -1, -1, err
	}
	msgs := f.Messages[key]
	unread := 0
	for _, m := range msgs {
		if !m.IsRead {
			unread++
		}
	}
	return len(msgs), unread, nil
}

func (f *Fake) ListMessages(ctx context.Context, accountName, mailboxName string, max int) ([]types.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := accountName + "/" + mailboxName
	f.record("listMessages %s", key)
	if err := f.FetchErr[key]; err != nil {
		return nil, err
	}
	msgs, ok := f.Messages[key]
	if !ok {
		return nil, fmt.Errorf("%w: mailbox %s", bridge.ErrNotFound, key)
	}
	if max > 0 && len(msgs) > max {
		msgs = msgs[:max]
	}
	out := make([]types.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (f *Fake) FindMessage(ctx context.Context, accountName, mailboxName, messageID string) (*types.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findLocked(accountName, mailboxName, messageID, "find")
}

func (f *Fake) ReadMessage(ctx context.Context, accountName, mailboxName, messageID string) (*types.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findLocked(accountName, mailboxName, messageID, "read")
}

func (f *Fake) findLocked(accountName, mailboxName, messageID, op string) (*types.Message, error) {
	key := accountName + "/" + mailboxName
	f.record("%s %s %s", op, key, messageID)
	if err := f.FindErr[key]; err != nil {
		return nil, err
	}
	msgs, ok := f.Messages[key]
	if !ok {
		return nil, fmt.Errorf("%w: mailbox %s", bridge.ErrNotFound, key)
	}
	for i := range msgs {
		if msgs[i].ID == messageID {
			msg := msgs[i]
			return &msg, nil
		}
	}
	return nil, fmt.Errorf("%w: message %s in %s", bridge.ErrNotFound, messageID, key)
}

func (f *Fake) SetReadState(ctx context.Context, accountName, mailboxName, messageID string, read bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := accountName + "/" + mailboxName
	f.record("setRead %s %s %t", key, messageID, read)
	if f.SetReadErr != nil {
		return f.SetReadErr
	}
	msgs := f.Messages[key]
	for i := range msgs {
		if msgs[i].ID == messageID {
			msgs[i].IsRead = read
			return nil
		}
	}
	return fmt.Errorf("%w: message %s in %s", bridge.ErrNotFound, messageID, key)
}

func (f *Fake) MoveMessage(ctx context.Context, accountName, mailboxName, messageID, targetAccount, targetMailbox string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("move %s/%s %s -> %s/%s", accountName, mailboxName, messageID, targetAccount, targetMailbox)
	if f.MoveErr != nil {
		return f.MoveErr
	}
	return f.relocateLocked(accountName, mailboxName, messageID, targetAccount, targetMailbox, true)
}

func (f *Fake) CopyMessage(ctx context.Context, accountName, mailboxName, messageID, targetAccount, targetMailbox string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("copy %s/%s %s -> %s/%s", accountName, mailboxName, messageID, targetAccount, targetMailbox)
	if f.CopyErr != nil {
		return f.CopyErr
	}
	return f.relocateLocked(accountName, mailboxName, messageID, targetAccount, targetMailbox, false)
}

func (f *Fake) DeleteMessage(ctx context.Context, accountName, mailboxName, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete %s/%s %s", accountName, mailboxName, messageID)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.relocateLocked(accountName, mailboxName, messageID, accountName, "Trash", true)
}

func (f *Fake) ArchiveMessage(ctx context.Context, accountName, mailboxName, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("archive %s/%s %s", accountName, mailboxName, messageID)
	if !f.NativeArchive {
		return bridge.ErrUnsupported
	}
	if f.ArchiveErr != nil {
		return f.ArchiveErr
	}
	return f.relocateLocked(accountName, mailboxName, messageID, accountName, "Archive", true)
}

func (f *Fake) relocateLocked(accountName, mailboxName, messageID, targetAccount, targetMailbox string, remove bool) error {
	sourceKey := accountName + "/" + mailboxName
	targetKey := targetAccount + "/" + targetMailbox
	msgs := f.Messages[sourceKey]
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		moved := msgs[i]
		moved.AccountName = targetAccount
		moved.MailboxName = targetMailbox
		if remove {
			f.Messages[sourceKey] = append(append([]types.Message(nil), msgs[:i]...), msgs[i+1:]...)
		}
		f.Messages[targetKey] = append(f.Messages[targetKey], moved)
		return nil
	}
	return fmt.Errorf("%w: message %s in %s", bridge.ErrNotFound, messageID, sourceKey)
}

func (f *Fake) NewDraft(ctx context.Context, toAddress, subject, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextDraft++
	id := fmt.Sprintf("draft-%d", f.nextDraft)
	f.record("newDraft %s", id)
	f.Drafts[id] = &Draft{ID: id, To: toAddress, Subject: subject, Content: body}
	return id, nil
}

func (f *Fake) ReplyDraft(ctx context.Context, accountName, mailboxName, messageID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.findLocked(accountName, mailboxName, messageID, "find"); err != nil {
		return "", err
	}
	f.nextDraft++
	id := fmt.Sprintf("draft-%d", f.nextDraft)
	f.record("replyDraft %s", id)
	f.Drafts[id] = &Draft{
		ID:           id,
		pendingReads: f.QuotedAfterReads,
		quoted:       f.ReplyQuoted,
	}
	return id, nil
}

func (f *Fake) DraftContent(ctx context.Context, draftID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("draftContent %s", draftID)
	draft, ok := f.Drafts[draftID]
	if !ok {
		return "", fmt.Errorf("%w: draft %s", bridge.ErrNotFound, draftID)
	}
	if draft.Content != "" {
		return draft.Content, nil
	}
	if draft.pendingReads > 0 {
		draft.pendingReads--
		return "", nil
	}
	return draft.quoted, nil
}

func (f *Fake) SetDraftContent(ctx context.Context, draftID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("setDraftContent %s", draftID)
	draft, ok := f.Drafts[draftID]
	if !ok {
		return fmt.Errorf("%w: draft %s", bridge.ErrNotFound, draftID)
	}
	draft.Content = content
	return nil
}

func (f *Fake) AttachFile(ctx context.Context, draftID, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("attach %s %s", draftID, path)
	if f.AttachErr != nil {
		return f.AttachErr
	}
	draft, ok := f.Drafts[draftID]
	if !ok {
		return fmt.Errorf("%w: draft %s", bridge.ErrNotFound, draftID)
	}
	draft.Attachments = append(draft.Attachments, path)
	return nil
}

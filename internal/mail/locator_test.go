package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocatorLocate(t *testing.T) {
	t.Run("correct hints mean a single probe", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Sent", msg("77", "status", "me@work", day(1)))
		_, locator, _, _ := newComponents(fake)

		found, err := locator.Locate(context.Background(), "77", "Work", "Sent")
		require.NoError(t, err)
		require.Equal(t, "Work", found.AccountName)
		require.Equal(t, "Sent", found.MailboxName)
		require.Len(t, fake.Calls("find"), 1)
		require.Empty(t, fake.Calls("listAccounts"))
	})

	t.Run("wrong hints fall back to a full scan", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("iCloud", "Inbox", msg("88", "receipt", "shop@x", day(1)))
		_, locator, _, _ := newComponents(fake)

		found, err := locator.Locate(context.Background(), "88", "Work", "Sent")
		require.NoError(t, err)
		require.Equal(t, "iCloud", found.AccountName)
		require.NotEmpty(t, fake.Calls("listAccounts"))
	})

	t.Run("scan finds messages in local mailboxes", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Local", "Receipts", msg("9", "archived", "old@x", nil))
		_, locator, _, _ := newComponents(fake)

		found, err := locator.Locate(context.Background(), "9", "", "")
		require.NoError(t, err)
		require.Equal(t, "Local/Receipts", found.AccountName+"/"+found.MailboxName)
	})

	t.Run("per-mailbox probe errors are swallowed", func(t *testing.T) {
		fake := newFixture()
		fake.FindErr = map[string]error{"Work/Inbox": errors.New("mailbox busy")}
		fake.AddMessage("Work", "Sent", msg("5", "s", "a@b", nil))
		_, locator, _, _ := newComponents(fake)

		found, err := locator.Locate(context.Background(), "5", "", "")
		require.NoError(t, err)
		require.Equal(t, "Sent", found.MailboxName)
	})

	t.Run("exhausting every mailbox yields ErrNotFound", func(t *testing.T) {
		fake := newFixture()
		_, locator, _, _ := newComponents(fake)

		_, err := locator.Locate(context.Background(), "nope", "", "")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id is a validation failure", func(t *testing.T) {
		fake := newFixture()
		_, locator, _, _ := newComponents(fake)

		_, err := locator.Locate(context.Background(), "", "", "")
		require.ErrorIs(t, err, ErrValidation)
		require.Empty(t, fake.Calls(""))
	})
}

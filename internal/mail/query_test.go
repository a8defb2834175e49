package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sebbaker/apple-mcp/internal/bridge/bridgetest"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestQueryMailboxResolution(t *testing.T) {
	t.Run("account and mailbox select exactly that mailbox", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Sent", msg("1", "s", "a@b", day(1)))
		fake.AddMessage("Work", "Inbox", msg("2", "i", "a@b", day(2)))
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", MailboxName: "Sent"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "1", got[0].ID)
	})

	t.Run("account only defaults to its inbox", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Inbox", msg("1", "i", "a@b", day(1)))
		fake.AddMessage("iCloud", "Inbox", msg("2", "i2", "a@b", day(2)))
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "1", got[0].ID)
	})

	t.Run("account without an inbox fails with ErrNoInbox naming the account", func(t *testing.T) {
		fake := newFixture()
		fake.AddMailbox("Forum", "All Mail")
		_, _, engine, _ := newComponents(fake)

		_, err := engine.List(context.Background(), QueryOptions{AccountName: "Forum"})
		require.ErrorIs(t, err, ErrNoInbox)
		require.Contains(t, err.Error(), "Forum")
	})

	t.Run("mailbox only matches the name across accounts", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Trash", msg("1", "t1", "a@b", day(1)))
		fake.AddMessage("iCloud", "Trash", msg("2", "t2", "a@b", day(2)))
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{MailboxName: "trash", Limit: intPtr(0)})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("neither given reads every inbox", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Inbox", msg("1", "i", "a@b", day(1)))
		fake.AddMessage("iCloud", "Inbox", msg("2", "i2", "a@b", day(2)))
		fake.AddMessage("Work", "Sent", msg("3", "s", "a@b", day(3)))
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("no matching mailbox yields an empty result, not an error", func(t *testing.T) {
		fake := newFixture()
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", MailboxName: "Nonexistent"})
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestQueryOrderingAndLimits(t *testing.T) {
	t.Run("sorted by date descending, undated last", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Inbox", msg("old", "o", "a@b", day(1)))
		fake.AddMessage("Work", "Inbox", msg("new", "n", "a@b", day(20)))
		fake.AddMessage("Work", "Inbox", msg("undated", "u", "a@b", nil))
		fake.AddMessage("Work", "Inbox", msg("mid", "m", "a@b", day(10)))
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work"})
		require.NoError(t, err)
		ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
		require.Equal(t, []string{"new", "mid", "old", "undated"}, ids)
	})

	t.Run("duplicate ids across resolution paths appear once", func(t *testing.T) {
		fake := newFixture()
		shared := msg("dup", "d", "a@b", day(5))
		fake.AddMessage("Work", "Inbox", shared)
		fake.AddMessage("iCloud", "Inbox", shared)
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("explicit limit truncates", func(t *testing.T) {
		fake := newFixture()
		for i := 1; i <= 6; i++ {
			fake.AddMessage("Work", "Inbox", msg(string(rune('a'+i)), "s", "a@b", day(i)))
		}
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", Limit: intPtr(3)})
		require.NoError(t, err)
		require.Len(t, got, 3)
	})

	t.Run("default limit applies when none given", func(t *testing.T) {
		fake := newFixture()
		for i := 1; i <= 28; i++ {
			fake.AddMessage("Work", "Inbox", msg(string(rune(i)), "s", "a@b", day(1)))
		}
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work"})
		require.NoError(t, err)
		require.Len(t, got, 25)
	})

	t.Run("non-positive limit means no cap", func(t *testing.T) {
		fake := newFixture()
		for i := 1; i <= 28; i++ {
			fake.AddMessage("Work", "Inbox", msg(string(rune(i)), "s", "a@b", day(1)))
		}
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", Limit: intPtr(0)})
		require.NoError(t, err)
		require.Len(t, got, 28)
	})

	t.Run("a failed mailbox fetch contributes nothing instead of failing the list", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Inbox", msg("1", "s", "a@b", day(1)))
		fake.FetchErr = map[string]error{"iCloud/Inbox": context.DeadlineExceeded}
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{})
		require.NoError(t, err)
		require.Len(t, got, 1)
	})
}

func TestQuerySearchAndFilters(t *testing.T) {
	seed := func(fake *bridgetest.Fake) {
		fake.AddMessage("Work", "Inbox", msg("1", "Quarterly invoice attached", "billing@vendor.com", day(1)))
		fake.AddMessage("Work", "Inbox", msg("2", "Team offsite agenda", "events@corp.com", day(2)))
		fake.AddMessage("Work", "Inbox", msg("3", "Invoice overdue notice", "billing@vendor.com", day(3)))
	}

	t.Run("search keeps approximate matches and drops the rest", func(t *testing.T) {
		fake := newFixture()
		seed(fake)
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", SearchTerm: "invoice"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, m := range got {
			require.Contains(t, m.Subject, "nvoice")
		}
	})

	t.Run("search matches the sender too", func(t *testing.T) {
		fake := newFixture()
		seed(fake)
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", SearchTerm: "events@corp.com"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "2", got[0].ID)
	})

	t.Run("read filter", func(t *testing.T) {
		fake := newFixture()
		readMsg := msg("r", "read one", "a@b", day(4))
		readMsg.IsRead = true
		fake.AddMessage("Work", "Inbox", readMsg)
		fake.AddMessage("Work", "Inbox", msg("u", "unread one", "a@b", day(5)))
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", IsRead: boolPtr(false)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "u", got[0].ID)
	})

	t.Run("flagged filter", func(t *testing.T) {
		fake := newFixture()
		flagged := msg("f", "flagged one", "a@b", day(4))
		flagged.IsFlagged = true
		fake.AddMessage("Work", "Inbox", flagged)
		fake.AddMessage("Work", "Inbox", msg("p", "plain one", "a@b", day(5)))
		_, _, engine, _ := newComponents(fake)

		got, err := engine.List(context.Background(), QueryOptions{AccountName: "Work", IsFlagged: boolPtr(true)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "f", got[0].ID)
	})
}

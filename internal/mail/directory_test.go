package mail

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

func TestDirectoryList(t *testing.T) {
	t.Run("enumerates accounts and local mailboxes", func(t *testing.T) {
		fake := newFixture()
		directory, _, _, _ := newComponents(fake)

		boxes, err := directory.List(context.Background())
		require.NoError(t, err)
		require.Len(t, boxes, 7)

		refs := make(map[string]bool)
		for _, box := range boxes {
			refs[box.Ref()] = true
		}
		require.True(t, refs["Work/Inbox"])
		require.True(t, refs["iCloud/Trash"])
		require.True(t, refs["Local/Receipts"])
	})

	t.Run("skips disabled accounts", func(t *testing.T) {
		fake := newFixture()
		fake.Accounts = append(fake.Accounts, types.Account{Name: "Old", Enabled: false})
		fake.MailboxNames["Old"] = []string{"Inbox"}
		directory, _, _, _ := newComponents(fake)

		boxes, err := directory.List(context.Background())
		require.NoError(t, err)
		for _, box := range boxes {
			require.NotEqual(t, "Old", box.AccountName)
		}
	})

	t.Run("dedups repeated pairs", func(t *testing.T) {
		fake := newFixture()
		// The same local folder reported by a second enumeration path.
		fake.MailboxNames[types.LocalAccount] = append(fake.MailboxNames[types.LocalAccount], "Receipts")
		directory, _, _, _ := newComponents(fake)

		boxes, err := directory.List(context.Background())
		require.NoError(t, err)
		count := 0
		for _, box := range boxes {
			if box.Ref() == "Local/Receipts" {
				count++
			}
		}
		require.Equal(t, 1, count)
	})

	t.Run("inboxes carry counts, other mailboxes the -1 sentinel", func(t *testing.T) {
		fake := newFixture()
		fake.AddMessage("Work", "Inbox", msg("1", "a", "x@y", day(1)))
		unread := msg("2", "b", "x@y", day(2))
		fake.AddMessage("Work", "Inbox", unread)
		read := msg("3", "c", "x@y", day(3))
		read.IsRead = true
		fake.AddMessage("Work", "Sent", read)
		directory, _, _, _ := newComponents(fake)

		boxes, err := directory.List(context.Background())
		require.NoError(t, err)
		for _, box := range boxes {
			switch box.Ref() {
			case "Work/Inbox":
				require.Equal(t, 2, box.MessageCount)
				require.Equal(t, 2, box.UnreadCount)
			case "Work/Sent":
				require.Equal(t, -1, box.MessageCount)
				require.Equal(t, -1, box.UnreadCount)
			}
		}
	})

	t.Run("stat failure degrades to the sentinel, not an error", func(t *testing.T) {
		fake := newFixture()
		fake.StatsErr = map[string]error{"Work/Inbox": errors.New("timeout")}
		directory, _, _, _ := newComponents(fake)

		boxes, err := directory.List(context.Background())
		require.NoError(t, err)
		for _, box := range boxes {
			if box.Ref() == "Work/Inbox" {
				require.Equal(t, -1, box.MessageCount)
				require.Equal(t, -1, box.UnreadCount)
			}
		}
	})

	t.Run("enumeration failure fails the whole call", func(t *testing.T) {
		fake := newFixture()
		fake.MailboxesErr = map[string]error{"iCloud": fmt.Errorf("%w: flaky", bridge.ErrUnavailable)}
		directory, _, _, _ := newComponents(fake)

		_, err := directory.List(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, bridge.ErrUnavailable)
	})

	t.Run("two calls with no mutation agree as sets", func(t *testing.T) {
		fake := newFixture()
		directory, _, _, _ := newComponents(fake)

		first, err := directory.List(context.Background())
		require.NoError(t, err)
		second, err := directory.List(context.Background())
		require.NoError(t, err)
		require.ElementsMatch(t, first, second)
	})
}

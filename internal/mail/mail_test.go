package mail

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sebbaker/apple-mcp/internal/bridge/bridgetest"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newFixture builds a fake bridge with two accounts and a local folder:
// Work (Inbox, Sent, Archive, Trash), iCloud (Inbox, Trash), Local (Receipts).
func newFixture() *bridgetest.Fake {
	fake := bridgetest.New()
	for _, name := range []string{"Inbox", "Sent", "Archive", "Trash"} {
		fake.AddMailbox("Work", name)
	}
	for _, name := range []string{"Inbox", "Trash"} {
		fake.AddMailbox("iCloud", name)
	}
	fake.AddMailbox(types.LocalAccount, "Receipts")
	return fake
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func msg(id, subject, sender string, received *time.Time) types.Message {
	return types.Message{
		ID:      id,
		Subject: subject,
		Sender:  sender,
		Date:    received,
	}
}

func day(n int) *time.Time {
	return datePtr(time.Date(2025, time.March, n, 12, 0, 0, 0, time.UTC))
}

func newComponents(fake *bridgetest.Fake) (*Directory, *Locator, *QueryEngine, *Coordinator) {
	logger := quietLogger()
	directory := NewDirectory(fake, logger)
	locator := NewLocator(fake, logger)
	engine := NewQueryEngine(fake, directory, QueryEngineConfig{
		PerMailboxCap:  200,
		DefaultLimit:   25,
		FuzzyThreshold: 0.72,
	}, logger)
	coordinator := NewCoordinator(fake, directory, locator, logger)
	return directory, locator, engine, coordinator
}

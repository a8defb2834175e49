package mail

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/xrash/smetrics"
	"golang.org/x/sync/errgroup"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/pkg/types"
)

// QueryOptions selects and filters messages for QueryEngine.List.
type QueryOptions struct {
	// SearchTerm, when non-empty, ranks messages by fuzzy match against
	// subject and sender and drops non-matches.
	SearchTerm string

	// Limit caps the result. Nil means the engine default; an explicit
	// value <= 0 means no cap.
	Limit *int

	AccountName string
	MailboxName string

	IsRead    *bool
	IsFlagged *bool
}

// QueryEngineConfig tunes the engine.
type QueryEngineConfig struct {
	// PerMailboxCap bounds how many recently indexed messages one bridge
	// call may return per mailbox.
	PerMailboxCap int
	// DefaultLimit applies when QueryOptions.Limit is nil.
	DefaultLimit int
	// FuzzyThreshold is the minimum Jaro-Winkler similarity for a search
	// match, in (0, 1].
	FuzzyThreshold float64
}

// QueryEngine lists messages from one or more resolved mailboxes in
// parallel, then merges, deduplicates, ranks, filters, sorts, and truncates
// client-side.
type QueryEngine struct {
	client    bridge.Client
	directory *Directory
	logger    *logrus.Logger
	cfg       QueryEngineConfig
}

// NewQueryEngine creates a query engine.
func NewQueryEngine(client bridge.Client, directory *Directory, cfg QueryEngineConfig, logger *logrus.Logger) *QueryEngine {
	return &QueryEngine{client: client, directory: directory, logger: logger, cfg: cfg}
}

// List resolves the mailbox set for opts, fetches each mailbox concurrently,
// and returns the merged result. Ordering is deterministic regardless of
// fetch completion order: date-received descending (undated last), with
// relevance ranking layered on top when a search term is present. An empty
// mailbox resolution yields an empty result, not an error.
func (q *QueryEngine) List(ctx context.Context, opts QueryOptions) ([]types.Message, error) {
	targets, err := q.resolveMailboxes(ctx, opts.AccountName, opts.MailboxName)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		q.logger.WithFields(logrus.Fields{
			"account": opts.AccountName,
			"mailbox": opts.MailboxName,
		}).Warn("No mailboxes matched the query")
		return []types.Message{}, nil
	}

	merged := q.fetchAll(ctx, targets)
	merged = dedupeMessages(merged)
	sortByDateDesc(merged)

	if term := strings.TrimSpace(opts.SearchTerm); term != "" {
		merged = rankBySimilarity(merged, term, q.cfg.FuzzyThreshold)
	}

	merged = filterByFlags(merged, opts.IsRead, opts.IsFlagged)

	limit := q.cfg.DefaultLimit
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// resolveMailboxes applies the mailbox-set policy; the four cases are
// mutually exclusive and checked in order.
func (q *QueryEngine) resolveMailboxes(ctx context.Context, accountName, mailboxName string) ([]types.Mailbox, error) {
	all, err := q.directory.List(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case accountName != "" && mailboxName != "":
		// Exactly the one named mailbox.
		for _, box := range all {
			if strings.EqualFold(box.AccountName, accountName) && strings.EqualFold(box.Name, mailboxName) {
				return []types.Mailbox{box}, nil
			}
		}
		return nil, nil

	case accountName != "":
		// That account's inbox.
		for _, box := range all {
			if strings.EqualFold(box.AccountName, accountName) && isInboxName(box.Name) {
				return []types.Mailbox{box}, nil
			}
		}
		return nil, fmt.Errorf("%w: account %q has no Inbox mailbox", ErrNoInbox, accountName)

	case mailboxName != "":
		// Every mailbox with that name across all accounts.
		var matches []types.Mailbox
		for _, box := range all {
			if strings.EqualFold(box.Name, mailboxName) {
				matches = append(matches, box)
			}
		}
		return matches, nil

	default:
		// Every account's inbox.
		var inboxes []types.Mailbox
		for _, box := range all {
			if isInboxName(box.Name) {
				inboxes = append(inboxes, box)
			}
		}
		return inboxes, nil
	}
}

// fetchAll issues one capped bridge call per mailbox, concurrently. A failed
// fetch contributes an empty slice; it never fails the whole list.
func (q *QueryEngine) fetchAll(ctx context.Context, targets []types.Mailbox) []types.Message {
	var mu sync.Mutex
	var merged []types.Message

	var g errgroup.Group
	for _, target := range targets {
		target := target
		g.Go(func() error {
			messages, err := q.client.ListMessages(ctx, target.AccountName, target.Name, q.cfg.PerMailboxCap)
			if err != nil {
				q.logger.WithError(err).WithFields(logrus.Fields{
					"account": target.AccountName,
					"mailbox": target.Name,
				}).Warn("Mailbox fetch failed, contributing no messages")
				return nil
			}
			mu.Lock()
			merged = append(merged, messages...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return merged
}

// dedupeMessages drops repeated message ids; the same message can be
// returned from two different listing paths. First occurrence wins.
func dedupeMessages(messages []types.Message) []types.Message {
	seen := make(map[string]struct{}, len(messages))
	out := make([]types.Message, 0, len(messages))
	for _, msg := range messages {
		if _, dup := seen[msg.ID]; dup {
			continue
		}
		seen[msg.ID] = struct{}{}
		out = append(out, msg)
	}
	return out
}

// sortByDateDesc orders newest first; undated messages sort as the oldest.
// The sort is stable so equal dates keep their merge order, and ties are
// broken by id to stay deterministic across fetch interleavings.
func sortByDateDesc(messages []types.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		di, dj := messages[i].Date, messages[j].Date
		switch {
		case di == nil && dj == nil:
			return messages[i].ID < messages[j].ID
		case di == nil:
			return false
		case dj == nil:
			return true
		case di.Equal(*dj):
			return messages[i].ID < messages[j].ID
		default:
			return di.After(*dj)
		}
	})
}

// rankBySimilarity keeps messages whose subject or sender approximately
// matches term, ordered by descending similarity. The sort is stable, so
// the date ordering survives among equal scores. Substring containment
// always counts as a full match.
func rankBySimilarity(messages []types.Message, term string, threshold float64) []types.Message {
	type scored struct {
		msg   types.Message
		score float64
	}
	kept := make([]scored, 0, len(messages))
	for _, msg := range messages {
		score := similarity(term, msg.Subject)
		if s := similarity(term, msg.Sender); s > score {
			score = s
		}
		if score >= threshold {
			kept = append(kept, scored{msg: msg, score: score})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	out := make([]types.Message, len(kept))
	for i, s := range kept {
		out[i] = s.msg
	}
	return out
}

// similarity scores term against candidate in [0, 1].
func similarity(term, candidate string) float64 {
	t := strings.ToLower(strings.TrimSpace(term))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if t == "" || c == "" {
		return 0
	}
	if strings.Contains(c, t) {
		return 1
	}
	best := smetrics.JaroWinkler(t, c, 0.7, 4)
	// Long candidates drown short terms in whole-string comparison; also
	// score against individual words.
	for _, word := range strings.Fields(c) {
		if s := smetrics.JaroWinkler(t, word, 0.7, 4); s > best {
			best = s
		}
	}
	return best
}

func filterByFlags(messages []types.Message, isRead, isFlagged *bool) []types.Message {
	if isRead == nil && isFlagged == nil {
		return messages
	}
	out := make([]types.Message, 0, len(messages))
	for _, msg := range messages {
		if isRead != nil && msg.IsRead != *isRead {
			continue
		}
		if isFlagged != nil && msg.IsFlagged != *isFlagged {
			continue
		}
		out = append(out, msg)
	}
	return out
}

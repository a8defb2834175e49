// Package retry provides a bounded poll-until-acceptable primitive for
// bridge reads whose values are populated asynchronously by the mail
// application (e.g. the quoted content of a freshly opened reply).
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when every attempt ran without the predicate
// accepting the observed value.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Config bounds a poll.
type Config struct {
	// Attempts is the maximum number of fetches (minimum 1).
	Attempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// Poll calls fetch up to cfg.Attempts times, pausing cfg.Delay between
// attempts, until accept returns true for the fetched value. It returns the
// last observed value alongside ErrExhausted when attempts run out, so
// callers can still use a best-effort result. Fetch errors end the poll
// immediately.
func Poll[T any](ctx context.Context, cfg Config, fetch func(context.Context) (T, error), accept func(T) bool) (T, error) {
	var last T
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		value, err := fetch(ctx)
		if err != nil {
			return last, err
		}
		last = value
		if accept(value) {
			return value, nil
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return last, ctx.Err()
			case <-time.After(cfg.Delay):
			}
		}
	}

	return last, ErrExhausted
}

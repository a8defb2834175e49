package bridge

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the initialization state of the mail connection.
type State int

const (
	// Uninitialized means no connectivity check has run yet.
	Uninitialized State = iota
	// Loading means the startup check is in flight.
	Loading
	// Ready means the mail application answered the startup check.
	Ready
	// DegradedReady means the startup check did not complete in time; the
	// server accepts requests and re-probes lazily on each one.
	DegradedReady
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case DegradedReady:
		return "degraded"
	default:
		return "uninitialized"
	}
}

// Readiness is the initialization state machine:
// Uninitialized -> Loading -> {Ready | DegradedReady}. It is owned by the
// process entry point and handed to request handlers as a capability; a
// handler calls Ensure before touching the bridge.
type Readiness struct {
	client Client
	logger *logrus.Logger

	mu    sync.Mutex
	state State
}

// NewReadiness wraps a client in an Uninitialized state machine.
func NewReadiness(client Client, logger *logrus.Logger) *Readiness {
	return &Readiness{client: client, logger: logger, state: Uninitialized}
}

// State returns the current state.
func (r *Readiness) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Initialize runs the startup connectivity check. The caller bounds ctx; on
// timeout or failure the machine lands in DegradedReady so startup never
// blocks indefinitely on an unreachable mail application.
func (r *Readiness) Initialize(ctx context.Context) {
	r.mu.Lock()
	r.state = Loading
	r.mu.Unlock()

	err := r.client.CheckHealth(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.logger.WithError(err).Warn("Mail application not reachable at startup, continuing in degraded mode")
		r.state = DegradedReady
		return
	}
	r.logger.Info("Mail application reachable")
	r.state = Ready
}

// Ensure verifies the bridge is usable before a request proceeds. In Ready
// state it is free; otherwise it re-probes once and promotes to Ready on
// success. Returns ErrUnavailable (wrapped) when the probe fails.
func (r *Readiness) Ensure(ctx context.Context) error {
	r.mu.Lock()
	if r.state == Ready {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if err := r.client.CheckHealth(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	r.state = Ready
	r.mu.Unlock()
	return nil
}

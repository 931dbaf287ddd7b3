package session

import (
	"context"
	"time"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/domain/port/persistence"
)

// DefaultLivenessTimeout is how long a session may stay silent before the
// sweep demotes it
const DefaultLivenessTimeout = 60 * time.Second

// Tracker decides which sessions count as active. Staleness is detected
// sweep-on-read: every query first demotes sessions whose last_seen fell out
// of the liveness window, then reads the survivors. There is no background
// timer, so freshness is bounded by how often callers ask.
type Tracker struct {
	sessions     persistence.SessionRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	timeout      time.Duration
}

// NewTracker creates a liveness tracker with the given timeout.
// A non-positive timeout falls back to DefaultLivenessTimeout.
func NewTracker(
	sessions persistence.SessionRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	timeout time.Duration,
) *Tracker {
	if timeout <= 0 {
		timeout = DefaultLivenessTimeout
	}
	return &Tracker{
		sessions:     sessions,
		timeProvider: timeProvider,
		logger:       logger,
		timeout:      timeout,
	}
}

// Timeout returns the liveness window
func (t *Tracker) Timeout() time.Duration {
	return t.timeout
}

// Sweep demotes every active session whose last_seen is older than the
// liveness window. Demotions are persisted before Sweep returns.
func (t *Tracker) Sweep(ctx context.Context) error {
	threshold := t.timeProvider.Now().Add(-t.timeout)

	demoted, err := t.sessions.DemoteStale(ctx, threshold)
	if err != nil {
		t.logger.Error("Liveness sweep failed", map[string]any{
			"threshold": threshold,
			"error":     err.Error(),
		})
		return err
	}

	if demoted > 0 {
		t.logger.Info("Demoted stale miner sessions", map[string]any{
			"demoted":   demoted,
			"threshold": threshold,
		})
	}

	return nil
}

// ActiveSessions returns all sessions currently flagged active, after
// applying the timeout sweep
func (t *Tracker) ActiveSessions(ctx context.Context) ([]*entity.MinerSession, error) {
	if err := t.Sweep(ctx); err != nil {
		return nil, err
	}
	return t.sessions.ListActive(ctx)
}

// MinersCount returns the number of active sessions, after applying the
// timeout sweep
func (t *Tracker) MinersCount(ctx context.Context) (int64, error) {
	if err := t.Sweep(ctx); err != nil {
		return 0, err
	}
	return t.sessions.CountActive(ctx)
}

package share

import (
	"context"
	"fmt"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	"github.com/poolworks/pool-ledger/internal/domain/port/broadcast"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/domain/port/persistence"
)

// Accumulator records submitted shares. Each submission is one atomic unit:
// increment the session counter, refresh last_seen, append the immutable
// share row. The counter is count-based; the caller-supplied weight is stored
// on the share row but does not enter the payout fraction.
type Accumulator struct {
	uow          persistence.UnitOfWork
	sessions     persistence.SessionRepository
	gateway      broadcast.Gateway
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewAccumulator creates a share accumulator
func NewAccumulator(
	uow persistence.UnitOfWork,
	sessions persistence.SessionRepository,
	gateway broadcast.Gateway,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Accumulator {
	return &Accumulator{
		uow:          uow,
		sessions:     sessions,
		gateway:      gateway,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// SubmitShare records one share for the session and returns the pool-wide
// total of shares across active sessions, recomputed fresh after the
// increment. A non-positive weight falls back to the default of 1.0.
//
// Possible errors:
// - ErrInvalidSession: If the session doesn't exist or is no longer active
// - ErrTotalUnavailable: If the share committed but the fresh total could not be read
// - ErrDatabaseConnection: If the store fails; nothing is applied partially
func (a *Accumulator) SubmitShare(ctx context.Context, sessionID uint64, weight float64) (int64, error) {
	if weight <= 0 {
		weight = entity.DefaultShareWeight
	}

	txCtx, err := a.uow.Begin(ctx)
	if err != nil {
		return 0, err
	}

	sessions := a.uow.GetSessionRepository(txCtx)
	sess, err := sessions.IncrementShares(txCtx, sessionID, a.timeProvider.Now())
	if err != nil {
		a.rollback(txCtx)
		if errs.IsInvalidSessionError(err) {
			a.logger.Warn("Share submitted on invalid session", map[string]any{
				"session_id": sessionID,
			})
		}
		return 0, err
	}

	record, err := entity.NewShare(sessionID, weight, a.timeProvider)
	if err != nil {
		a.rollback(txCtx)
		return 0, err
	}

	shares := a.uow.GetShareRepository(txCtx)
	if err := shares.Create(txCtx, record); err != nil {
		a.rollback(txCtx)
		return 0, err
	}

	if err := a.uow.Commit(txCtx); err != nil {
		return 0, err
	}

	a.logger.Debug("Share recorded", map[string]any{
		"session_id":     sessionID,
		"session_shares": sess.Shares,
		"weight":         weight,
	})

	// Fresh, uncached total; the share above is already committed, so a read
	// failure here must not look like a rejected share to the caller
	total, err := a.sessions.SumActiveShares(ctx)
	if err != nil {
		a.logger.Warn("Share committed but total could not be read", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return 0, fmt.Errorf("%w: %w", errs.ErrTotalUnavailable, err)
	}

	a.gateway.Publish(broadcast.EventTokenUpdate, map[string]any{
		"total_shares": total,
	})

	return total, nil
}

// rollback discards the transaction, logging instead of failing when the
// rollback itself errors
func (a *Accumulator) rollback(txCtx context.Context) {
	if err := a.uow.Rollback(txCtx); err != nil {
		a.logger.Error("Failed to rollback share submission", map[string]any{
			"error": err.Error(),
		})
	}
}

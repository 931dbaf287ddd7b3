package payout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	"github.com/poolworks/pool-ledger/internal/domain/port/broadcast"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/domain/port/persistence"
)

// DefaultLockTimeout bounds how long the payout advisory lock survives a
// crashed run before another run may take over
const DefaultLockTimeout = 30 * time.Second

// Engine distributes a reward across active sessions proportionally to their
// share counts. A run is one epoch operation: the liveness sweep, the
// active-session snapshot, all wallet credits, all payout receipts and all
// share resets commit as a single unit, or none of them do. Concurrent share
// submissions are ordered strictly before the snapshot or strictly after the
// reset by the session row locks.
type Engine struct {
	uow          persistence.UnitOfWork
	wallets      persistence.WalletRepository
	locks        persistence.PoolLockRepository
	gateway      broadcast.Gateway
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	livenessTimeout time.Duration
	lockTimeout     time.Duration
}

// NewEngine creates a payout engine. The liveness timeout must match the
// tracker's so a run and a sweep agree on who is active.
func NewEngine(
	uow persistence.UnitOfWork,
	wallets persistence.WalletRepository,
	locks persistence.PoolLockRepository,
	gateway broadcast.Gateway,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	livenessTimeout time.Duration,
	lockTimeout time.Duration,
) *Engine {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Engine{
		uow:             uow,
		wallets:         wallets,
		locks:           locks,
		gateway:         gateway,
		timeProvider:    timeProvider,
		logger:          logger,
		livenessTimeout: livenessTimeout,
		lockTimeout:     lockTimeout,
	}
}

// Distribute splits totalReward across active sessions by share count,
// credits wallets, appends payout receipts and resets session counters for
// the next epoch. Amounts in the returned report are rounded to the reporting
// precision; stored balances keep full precision. Sessions with zero shares
// are included with amount 0.
//
// Possible errors:
// - ErrInvalidAmount: If totalReward is not a positive finite number
// - ErrNoShares: If active sessions hold zero shares in total; no state changes
// - ErrPoolLocked: If another payout run is in progress
// - ErrDatabaseConnection: If the store fails; the whole run rolls back
func (e *Engine) Distribute(ctx context.Context, totalReward float64) ([]entity.PayoutResult, error) {
	if err := entity.ValidateReward(totalReward); err != nil {
		return nil, err
	}

	if err := e.locks.AcquireLock(ctx, persistence.LockPayoutEpoch, e.lockTimeout); err != nil {
		return nil, err
	}
	defer func() {
		if err := e.locks.ReleaseLock(ctx, persistence.LockPayoutEpoch); err != nil {
			e.logger.Warn("Failed to release payout lock, it will expire", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	results, err := e.run(txCtx, totalReward)
	if err != nil {
		if rbErr := e.uow.Rollback(txCtx); rbErr != nil {
			e.logger.Error("Failed to rollback payout run", map[string]any{
				"error": rbErr.Error(),
			})
		}
		return nil, err
	}

	if err := e.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	e.logger.Info("Payout run committed", map[string]any{
		"total_reward": totalReward,
		"recipients":   len(results),
	})

	// External visibility strictly after commit
	e.publishReports(ctx, results)

	return results, nil
}

// run executes the epoch body inside the already-open transaction
func (e *Engine) run(txCtx context.Context, totalReward float64) ([]entity.PayoutResult, error) {
	sessions := e.uow.GetSessionRepository(txCtx)

	// Sweep first: a session that timed out the instant before the run is
	// excluded, with no compensation for partial-period contribution
	threshold := e.timeProvider.Now().Add(-e.livenessTimeout)
	if _, err := sessions.DemoteStale(txCtx, threshold); err != nil {
		return nil, err
	}

	active, err := sessions.ListActiveForUpdate(txCtx)
	if err != nil {
		return nil, err
	}

	var totalShares int64
	for _, sess := range active {
		totalShares += sess.Shares
	}
	if totalShares == 0 {
		e.logger.Warn("Payout rejected: no shares across active sessions", map[string]any{
			"total_reward":    totalReward,
			"active_sessions": len(active),
		})
		return nil, errs.ErrNoShares
	}

	wallets := e.uow.GetWalletRepository(txCtx)
	payouts := e.uow.GetPayoutRepository(txCtx)

	results := make([]entity.PayoutResult, 0, len(active))
	for _, sess := range active {
		amount := entity.ProportionalAmount(totalReward, sess.Shares, totalShares)

		if _, err := wallets.Credit(txCtx, sess.UserID, amount); err != nil {
			return nil, errs.NewPayoutError(totalReward, "wallet credit failed", err)
		}

		receipt, err := entity.NewPayout(sess.UserID, amount, mintTxID(), e.timeProvider)
		if err != nil {
			return nil, errs.NewPayoutError(totalReward, "invalid payout receipt", err)
		}
		if err := payouts.Create(txCtx, receipt); err != nil {
			return nil, errs.NewPayoutError(totalReward, "payout receipt failed", err)
		}

		if err := sessions.ResetShares(txCtx, sess.ID); err != nil {
			return nil, errs.NewPayoutError(totalReward, "share reset failed", err)
		}

		results = append(results, entity.PayoutResult{
			UserID: sess.UserID,
			Amount: entity.RoundForReport(amount),
		})
	}

	return results, nil
}

// publishReports fans out the payout list and the full balance table.
// Best-effort: a failed read or delivery never affects the committed run.
func (e *Engine) publishReports(ctx context.Context, results []entity.PayoutResult) {
	e.gateway.Publish(broadcast.EventPayouts, map[string]any{
		"payouts": results,
	})

	wallets, err := e.wallets.ListAll(ctx)
	if err != nil {
		e.logger.Warn("Payout committed but balances could not be read for broadcast", map[string]any{
			"error": err.Error(),
		})
		return
	}

	balances := make([]entity.BalanceEntry, 0, len(wallets))
	for _, w := range wallets {
		balances = append(balances, entity.BalanceEntry{
			UserID:  w.UserID,
			Balance: w.Balance(),
		})
	}

	e.gateway.Publish(broadcast.EventBalances, map[string]any{
		"balances": balances,
	})
}

// mintTxID mints a placeholder transaction id; no real chain is involved
func mintTxID() string {
	return "SIM-TX-" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

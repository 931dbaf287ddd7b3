package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// PoolLockRepository implements named advisory locking using GORM. The payout
// engine takes the epoch lock here so only one run mutates session counters
// at a time, even across processes.
type PoolLockRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewPoolLockRepository creates a new PoolLockRepository instance
func NewPoolLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *PoolLockRepository {
	return &PoolLockRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// AcquireLock attempts to acquire the named lock. The lock expires after the
// given duration in case the holder dies without releasing it.
func (r *PoolLockRepository) AcquireLock(ctx context.Context, name string, duration time.Duration) error {
	r.logger.Debug("Attempting to acquire lock", map[string]any{
		"lock":     name,
		"duration": duration.String(),
	})

	now := r.timeProvider.Now()
	expiresAt := now.Add(duration)

	// Upsert in a single statement: the insert wins when no row exists, the
	// update wins only when the existing lock has expired. A held,
	// non-expired lock leaves zero rows affected.
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO pool_locks (name, locked_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE
		SET locked_at = EXCLUDED.locked_at,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		WHERE pool_locks.expires_at <= ?`,
		name, now, expiresAt, now, now, // INSERT values
		now, // WHERE condition for the ON CONFLICT clause
	)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Lock is already held", map[string]any{
				"lock": name,
			})
			return errs.ErrPoolLocked
		}

		if isContextError(result.Error) {
			r.logger.Warn("Context timeout acquiring lock", map[string]any{
				"lock":  name,
				"error": result.Error.Error(),
			})
			return fmt.Errorf("lock acquisition timeout: %w", result.Error)
		}

		r.logger.Error("Database error acquiring lock", map[string]any{
			"lock":  name,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	// Zero rows affected means the conflict clause declined the update: the
	// lock is held and has not expired yet
	if result.RowsAffected == 0 {
		r.logger.Warn("Lock is held and not yet expired", map[string]any{
			"lock": name,
		})
		return errs.ErrPoolLocked
	}

	r.logger.Info("Lock acquired successfully", map[string]any{
		"lock":       name,
		"locked_at":  now,
		"expires_at": expiresAt,
	})
	return nil
}

// ReleaseLock releases a previously acquired lock. Releasing a lock that is
// not held is a no-op.
func (r *PoolLockRepository) ReleaseLock(ctx context.Context, name string) error {
	r.logger.Debug("Releasing lock", map[string]any{
		"lock": name,
	})

	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&model.PoolLock{})

	// A context error here is not critical: the lock expires on its own
	if result.Error != nil && isContextError(result.Error) {
		r.logger.Warn("Context timeout when releasing lock, lock will expire automatically", map[string]any{
			"lock":  name,
			"error": result.Error.Error(),
		})
		return nil
	}

	if result.Error != nil {
		r.logger.Error("Failed to release lock", map[string]any{
			"lock":  name,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Lock released successfully", map[string]any{
			"lock": name,
		})
	}

	return nil
}

// CleanupExpiredLocks removes all expired locks from the database
func (r *PoolLockRepository) CleanupExpiredLocks(ctx context.Context) error {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.PoolLock{})

	if result.Error != nil {
		r.logger.Error("Failed to clean up expired locks", map[string]any{
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Expired locks cleanup completed", map[string]any{
			"locks_removed": result.RowsAffected,
		})
	}
	return nil
}

// isContextError checks if an error is related to context timeout or cancellation
func isContextError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "timeout")
}

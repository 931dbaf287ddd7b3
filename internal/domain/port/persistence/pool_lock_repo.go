package persistence

import (
	"context"
	"time"
)

// LockPayoutEpoch is the advisory lock name taken for the duration of a
// payout run, so only one run mutates session counters at a time
const LockPayoutEpoch = "payout_epoch"

// PoolLockRepository defines methods for named advisory locks used to
// serialize epoch operations
type PoolLockRepository interface {
	// AcquireLock attempts to acquire the named lock. The lock expires after
	// the given duration in case the holder dies without releasing it.
	//
	// Possible errors:
	// - ErrPoolLocked: If the lock is held and not yet expired
	// - ErrDatabaseConnection: If database connection fails
	AcquireLock(ctx context.Context, name string, duration time.Duration) error

	// ReleaseLock releases a previously acquired lock. Releasing a lock that
	// is not held is a no-op.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ReleaseLock(ctx context.Context, name string) error
}

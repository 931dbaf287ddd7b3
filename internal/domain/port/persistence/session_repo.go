package persistence

import (
	"context"
	"time"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
)

// SessionRepository defines methods to interact with miner session data.
// All single-session mutations are atomic read-modify-write operations on
// one row; the ForUpdate variants take row locks for epoch operations.
type SessionRepository interface {
	// GetByID retrieves a session by ID
	//
	// Possible errors:
	// - ErrSessionNotFound: If the session doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.MinerSession, error)

	// Create creates a new session and assigns its ID
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, session *entity.MinerSession) error

	// Touch updates last_seen on an active session (heartbeat). The update is
	// atomic: a single row-locked read-modify-write.
	//
	// Possible errors:
	// - ErrInvalidSession: If the session doesn't exist or is inactive
	// - ErrDatabaseConnection: If database connection fails
	Touch(ctx context.Context, id uint64, now time.Time) error

	// IncrementShares atomically adds one share to an active session and
	// updates last_seen, returning the updated session. The session row stays
	// locked until the surrounding transaction commits, so concurrent
	// submissions on the same session serialize instead of losing updates.
	//
	// Possible errors:
	// - ErrInvalidSession: If the session doesn't exist or is inactive
	// - ErrDatabaseConnection: If database connection fails
	IncrementShares(ctx context.Context, id uint64, now time.Time) (*entity.MinerSession, error)

	// Deactivate flips active to false. Idempotent: a missing session or an
	// already-inactive session is not an error.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Deactivate(ctx context.Context, id uint64) error

	// DeactivateByUser flips active to false on every active session of the
	// given user, returning how many were demoted
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	DeactivateByUser(ctx context.Context, userID uint64) (int64, error)

	// DemoteStale flips active to false on every active session whose
	// last_seen is before the threshold, returning how many were demoted.
	// This is the liveness sweep.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	DemoteStale(ctx context.Context, threshold time.Time) (int64, error)

	// ListActive returns all sessions with active = true
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListActive(ctx context.Context) ([]*entity.MinerSession, error)

	// ListActiveForUpdate returns all active sessions with their rows locked
	// until the surrounding transaction commits. Used by the payout engine to
	// pin a consistent snapshot of active sessions and share counts.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListActiveForUpdate(ctx context.Context) ([]*entity.MinerSession, error)

	// CountActive returns the number of sessions with active = true
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	CountActive(ctx context.Context) (int64, error)

	// SumActiveShares returns the total share count across active sessions,
	// recomputed fresh on every call
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	SumActiveShares(ctx context.Context) (int64, error)

	// ResetShares sets the session's share counter back to zero for the next
	// epoch
	//
	// Possible errors:
	// - ErrSessionNotFound: If the session doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	ResetShares(ctx context.Context, id uint64) error
}

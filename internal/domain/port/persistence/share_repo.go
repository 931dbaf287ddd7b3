package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
)

// ShareRepository defines methods to interact with share records.
// Shares are append-only history: there is no update or delete.
type ShareRepository interface {
	// Create appends a new immutable share record and assigns its ID
	//
	// Possible errors:
	// - ErrConstraintViolation: If the referenced session doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, share *entity.Share) error

	// CountBySession returns how many shares a session has submitted in total,
	// across all epochs
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	CountBySession(ctx context.Context, sessionID uint64) (int64, error)
}

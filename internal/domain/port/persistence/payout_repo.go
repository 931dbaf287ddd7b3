package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
)

// PayoutRepository defines methods to interact with payout receipts.
// Payouts are append-only history: there is no update or delete.
type PayoutRepository interface {
	// Create appends a new payout receipt and assigns its ID
	//
	// Possible errors:
	// - ErrConstraintViolation: If the referenced user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, payout *entity.Payout) error

	// ListByUser returns a user's payout history, newest first
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByUser(ctx context.Context, userID uint64) ([]*entity.Payout, error)
}

package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transactional operations
// across multiple repositories to maintain data consistency. The payout
// engine runs an entire epoch (sweep, snapshot, credits, resets) inside one
// unit; the share accumulator uses it for the increment-plus-append pair.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetWalletRepository returns a wallet repository bound to the current transaction
	GetWalletRepository(ctx context.Context) WalletRepository

	// GetSessionRepository returns a session repository bound to the current transaction
	GetSessionRepository(ctx context.Context) SessionRepository

	// GetShareRepository returns a share repository bound to the current transaction
	GetShareRepository(ctx context.Context) ShareRepository

	// GetPayoutRepository returns a payout repository bound to the current transaction
	GetPayoutRepository(ctx context.Context) PayoutRepository
}

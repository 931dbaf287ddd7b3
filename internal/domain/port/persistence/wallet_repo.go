package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
)

// WalletRepository defines essential methods to interact with wallet data
type WalletRepository interface {
	// GetByUserID retrieves the wallet owned by the given user
	//
	// Possible errors:
	// - ErrWalletNotFound: If the user has no wallet
	// - ErrDatabaseConnection: If database connection fails
	GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error)

	// Create creates a new wallet and assigns its ID
	//
	// Possible errors:
	// - ErrConstraintViolation: If the user already has a wallet or the address collides
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, wallet *entity.Wallet) error

	// Credit atomically adds amount to the wallet of the given user and
	// returns the updated wallet. The row is locked for the duration of the
	// update so concurrent credits never lose an increment.
	//
	// Possible errors:
	// - ErrWalletNotFound: If the user has no wallet
	// - ErrNegativeCredit: If amount is negative
	// - ErrDatabaseConnection: If database connection fails
	Credit(ctx context.Context, userID uint64, amount float64) (*entity.Wallet, error)

	// ListAll returns every wallet, ordered by user ID.
	// Used to build the balances report after a payout run.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListAll(ctx context.Context) ([]*entity.Wallet, error)
}

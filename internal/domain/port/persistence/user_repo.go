package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
)

// UserRepository defines essential methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	// Used to resolve the identity on a miner join
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByUsername retrieves a user by unique username
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the given username
	// - ErrDatabaseConnection: If database connection fails
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create creates a new user and assigns its ID
	//
	// Possible errors:
	// - ErrDuplicateUser: If the username is already taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error
}

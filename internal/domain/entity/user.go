package entity

import (
	"strings"
	"time"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
)

// User represents a registered pool participant.
// Immutable after registration except for the IsMiner flag.
type User struct {
	ID           uint64    // Unique identifier for the user
	Username     string    // Unique login name
	PasswordHash string    // Hashed password (hashing is done by the user usecase)
	CreatedAt    time.Time // When the user was registered
	IsMiner      bool      // Whether the user participates in mining
}

// NewUser creates a new user with the given username and password hash
func NewUser(username, passwordHash string, timeProvider coreport.TimeProvider) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.ErrInvalidUsername
	}
	if passwordHash == "" {
		return nil, errs.ErrInvalidPassword
	}

	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    timeProvider.Now(),
		IsMiner:      true,
	}, nil
}

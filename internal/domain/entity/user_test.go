package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	"github.com/poolworks/pool-ledger/mocks/port/core"
)

func TestNewUser(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should create a miner user", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		user, err := NewUser("miner-alice", "hashed-password", mockTimeProvider)

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "miner-alice", user.Username)
		assert.Equal(t, "hashed-password", user.PasswordHash)
		assert.Equal(t, fixedTime, user.CreatedAt)
		assert.True(t, user.IsMiner)
	})

	t.Run("should trim whitespace from the username", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		user, err := NewUser("  miner-bob  ", "hashed-password", mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, "miner-bob", user.Username)
	})

	t.Run("should reject an empty username", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		user, err := NewUser("   ", "hashed-password", mockTimeProvider)

		assert.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, errs.ErrInvalidUsername)
	})

	t.Run("should reject an empty password hash", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		user, err := NewUser("miner-alice", "", mockTimeProvider)

		assert.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, errs.ErrInvalidPassword)
	})
}

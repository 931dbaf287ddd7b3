package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
)

func TestNewWallet(t *testing.T) {
	t.Run("should create a wallet with zero balance", func(t *testing.T) {
		wallet, err := NewWallet(123, "SIM-abc123")

		assert.NoError(t, err)
		assert.NotNil(t, wallet)
		assert.Equal(t, uint64(123), wallet.UserID)
		assert.Equal(t, "SIM-abc123", wallet.Address)
		assert.Equal(t, 0.0, wallet.Balance())
	})

	t.Run("should reject a zero user ID", func(t *testing.T) {
		wallet, err := NewWallet(0, "SIM-abc123")

		assert.Error(t, err)
		assert.Nil(t, wallet)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestWallet_Credit(t *testing.T) {
	t.Run("should add to the balance", func(t *testing.T) {
		wallet, _ := NewWallet(123, "SIM-abc123")

		assert.NoError(t, wallet.Credit(75.0))
		assert.NoError(t, wallet.Credit(25.0))

		assert.Equal(t, 100.0, wallet.Balance())
	})

	t.Run("should accept a zero credit", func(t *testing.T) {
		wallet, _ := NewWallet(123, "SIM-abc123")

		assert.NoError(t, wallet.Credit(0))
		assert.Equal(t, 0.0, wallet.Balance())
	})

	t.Run("should reject a negative credit and keep the balance", func(t *testing.T) {
		wallet, _ := NewWallet(123, "SIM-abc123")
		wallet.SetBalance(50.0)

		err := wallet.Credit(-10.0)

		assert.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrNegativeCredit)
		assert.Equal(t, 50.0, wallet.Balance())
	})

	t.Run("should keep full precision across many credits", func(t *testing.T) {
		wallet, _ := NewWallet(123, "SIM-abc123")

		for i := 0; i < 1000; i++ {
			assert.NoError(t, wallet.Credit(0.000000001))
		}

		assert.InDelta(t, 0.000001, wallet.Balance(), 1e-15)
	})
}

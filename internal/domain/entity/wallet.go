package entity

import (
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
)

// Wallet holds a user's simulated balance. Exactly one wallet exists per user,
// created together with the user. The balance is mutated only by the payout
// engine and is monotonically non-decreasing: payouts only add.
type Wallet struct {
	ID      uint64  // Unique identifier for the wallet
	UserID  uint64  // Owning user (1:1)
	Address string  // Opaque simulated address, unique
	balance float64 // Current balance (private, full precision)
}

// NewWallet creates a wallet for the given user with a zero balance
func NewWallet(userID uint64, address string) (*Wallet, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	return &Wallet{
		UserID:  userID,
		Address: address,
		balance: 0,
	}, nil
}

// Balance returns the current balance at full precision
func (w *Wallet) Balance() float64 {
	return w.balance
}

// SetBalance sets the balance directly (for internal use, like repositories)
func (w *Wallet) SetBalance(balance float64) {
	w.balance = balance
}

// Credit adds a payout amount to the balance. Negative credits are rejected,
// which keeps the balance monotonically non-decreasing.
func (w *Wallet) Credit(amount float64) error {
	if amount < 0 {
		return errs.ErrNegativeCredit
	}
	w.balance += amount
	return nil
}

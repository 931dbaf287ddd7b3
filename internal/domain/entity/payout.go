package entity

import (
	"time"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
)

// Payout is an immutable receipt of one user's slice of a payout run.
// One row per user per run that included the user's session, append-only.
// TxID is a minted placeholder, not a real chain transaction.
type Payout struct {
	ID        uint64    // Unique identifier for the payout
	UserID    uint64    // Credited user
	Amount    float64   // Credited amount at full precision
	Timestamp time.Time // When the payout run committed
	TxID      string    // Placeholder transaction id
}

// NewPayout creates a payout receipt for the given user
func NewPayout(userID uint64, amount float64, txID string, timeProvider coreport.TimeProvider) (*Payout, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if amount < 0 {
		return nil, errs.ErrNegativeCredit
	}

	return &Payout{
		UserID:    userID,
		Amount:    amount,
		Timestamp: timeProvider.Now(),
		TxID:      txID,
	}, nil
}

// PayoutResult is the outward-facing report entry for one user in a payout
// run. The amount here is rounded for reporting; the stored balance and the
// Payout row keep full precision.
type PayoutResult struct {
	UserID uint64  `json:"user_id"`
	Amount float64 `json:"amount"`
}

// BalanceEntry is one row of the wallet balance table reported after a
// successful payout run
type BalanceEntry struct {
	UserID  uint64  `json:"user_id"`
	Balance float64 `json:"balance"`
}

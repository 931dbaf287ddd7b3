package entity

import (
	"time"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
)

// DefaultShareWeight is used when a submission carries no explicit weight
const DefaultShareWeight = 1.0

// Share is one immutable unit of mining-activity credit. Rows are append-only:
// never mutated, never deleted. The weight is recorded as supplied by the
// caller but the payout fraction uses the share count, not the weight sum.
type Share struct {
	ID             uint64    // Unique identifier for the share
	MinerSessionID uint64    // Session that submitted the share
	Timestamp      time.Time // When the share was submitted
	Weight         float64   // Caller-supplied weight, informational only
}

// NewShare creates a share record for the given session
func NewShare(minerSessionID uint64, weight float64, timeProvider coreport.TimeProvider) (*Share, error) {
	if minerSessionID == 0 {
		return nil, errs.ErrInvalidSession
	}
	if weight <= 0 {
		weight = DefaultShareWeight
	}

	return &Share{
		MinerSessionID: minerSessionID,
		Timestamp:      timeProvider.Now(),
		Weight:         weight,
	}, nil
}

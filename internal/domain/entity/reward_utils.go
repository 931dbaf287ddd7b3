package entity

import (
	"fmt"
	"math"

	errs "github.com/poolworks/pool-ledger/internal/domain/error"
)

// ReportDecimalPlaces is the precision used for outward-facing payout reports.
// Stored balances and Payout rows keep full float64 precision; only the
// reported figures are rounded, so repeated runs accumulate no rounding drift.
const ReportDecimalPlaces = 8

// ValidateReward checks that a payout reward is a positive, finite amount
func ValidateReward(totalReward float64) error {
	if math.IsNaN(totalReward) || math.IsInf(totalReward, 0) {
		return fmt.Errorf("%w: not a finite number", errs.ErrInvalidAmount)
	}
	if totalReward <= 0 {
		return fmt.Errorf("%w: must be positive, got %v", errs.ErrInvalidAmount, totalReward)
	}
	return nil
}

// RoundForReport rounds an amount to the reporting precision
func RoundForReport(amount float64) float64 {
	shift := math.Pow10(ReportDecimalPlaces)
	return math.Round(amount*shift) / shift
}

// ProportionalAmount computes one session's slice of the reward by share
// count. Callers must ensure totalShares > 0.
func ProportionalAmount(totalReward float64, shares, totalShares int64) float64 {
	return totalReward * (float64(shares) / float64(totalShares))
}

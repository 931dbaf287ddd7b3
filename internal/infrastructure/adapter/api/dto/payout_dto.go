package dto

import (
	"github.com/poolworks/pool-ledger/internal/domain/entity"
)

// PayoutRequest represents the API request for triggering a payout run
type PayoutRequest struct {
	TotalReward float64 `json:"total_reward" binding:"required"`
}

// PayoutResponse represents the API response for a completed payout run
type PayoutResponse struct {
	Payouts []entity.PayoutResult `json:"payouts"`
}

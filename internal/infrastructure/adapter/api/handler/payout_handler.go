package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerr "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	payoutUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/payout"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/api/dto"
)

// PayoutHandler handles payout-related HTTP requests
type PayoutHandler struct {
	engine *payoutUseCase.Engine
	logger coreport.Logger
}

// NewPayoutHandler creates a new payout handler instance
func NewPayoutHandler(engine *payoutUseCase.Engine, logger coreport.Logger) *PayoutHandler {
	return &PayoutHandler{
		engine: engine,
		logger: logger,
	}
}

// Distribute handles the POST /api/payout endpoint. Runs one payout epoch
// over the sessions alive at the moment of the call.
func (h *PayoutHandler) Distribute(c *gin.Context) {
	var req dto.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidAmount),
			Message: "total_reward is required",
		})
		return
	}

	results, err := h.engine.Distribute(c.Request.Context(), req.TotalReward)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		switch {
		case errors.Is(err, domainerr.ErrInvalidAmount):
			statusCode = http.StatusBadRequest
			errorMessage = "Total reward must be a positive finite number"
		case errors.Is(err, domainerr.ErrNoShares):
			statusCode = http.StatusConflict
			errorMessage = "No shares to distribute"
		case errors.Is(err, domainerr.ErrPoolLocked):
			statusCode = http.StatusConflict
			errorMessage = "A payout run is already in progress"
		}

		h.logger.Error("Error distributing payout", map[string]any{
			"total_reward": req.TotalReward,
			"error":        err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, dto.PayoutResponse{
		Payouts: results,
	})
}

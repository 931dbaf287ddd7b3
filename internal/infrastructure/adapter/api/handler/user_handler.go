package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	domainerr "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	userUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/user"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/api/dto"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *userUseCase.Service
	logger      coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(userService *userUseCase.Service, logger coreport.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles the POST /api/register endpoint
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUsername),
			Message: "Username and password are required",
		})
		return
	}

	user, wallet, err := h.userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		switch {
		case errors.Is(err, domainerr.ErrDuplicateUser):
			statusCode = http.StatusConflict
			errorMessage = "Username is already taken"
		case errors.Is(err, domainerr.ErrInvalidUsername), errors.Is(err, domainerr.ErrInvalidPassword):
			statusCode = http.StatusBadRequest
			errorMessage = "Username and password are required"
		}

		h.logger.Error("Error registering user", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:        user.ID,
		Username:      user.Username,
		WalletAddress: wallet.Address,
	})
}

// Login handles the POST /api/login endpoint
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidCredentials),
			Message: "Username and password are required",
		})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		if errors.Is(err, domainerr.ErrInvalidCredentials) {
			statusCode = http.StatusUnauthorized
			errorMessage = "Invalid username or password"
		}

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}

// GetBalance handles the GET /api/users/:userId/balance endpoint
func (h *UserHandler) GetBalance(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	wallet, err := h.userService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		if errors.Is(err, domainerr.ErrWalletNotFound) {
			statusCode = http.StatusNotFound
			errorMessage = "Wallet not found"
		}

		h.logger.Error("Error getting wallet balance", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  wallet.UserID,
		Address: wallet.Address,
		Balance: wallet.Balance(),
	})
}

// GetPayoutHistory handles the GET /api/users/:userId/payouts endpoint
func (h *UserHandler) GetPayoutHistory(c *gin.Context) {
	userID, ok := h.parseUserID(c)
	if !ok {
		return
	}

	payouts, err := h.userService.GetPayoutHistory(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting payout history", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	entries := make([]dto.PayoutHistoryEntry, 0, len(payouts))
	for _, p := range payouts {
		entries = append(entries, dto.PayoutHistoryEntry{
			PayoutID:  p.ID,
			Amount:    p.Amount,
			Timestamp: p.Timestamp.Format(time.RFC3339),
			TxID:      p.TxID,
		})
	}

	c.JSON(http.StatusOK, entries)
}

// parseUserID extracts and validates the userId path parameter, writing the
// error response itself when the parameter is malformed
func (h *UserHandler) parseUserID(c *gin.Context) (uint64, bool) {
	userIDParam := c.Param("userId")
	userID, err := strconv.ParseUint(userIDParam, 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return userID, true
}

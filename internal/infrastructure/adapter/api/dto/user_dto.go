package dto

// RegisterRequest represents the API request for registering a user
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse represents the API response for a successful registration
type RegisterResponse struct {
	UserID        uint64 `json:"userId"`
	Username      string `json:"username"`
	WalletAddress string `json:"walletAddress"`
}

// LoginRequest represents the API request for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the API response for a successful login
type LoginResponse struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
}

// BalanceResponse represents the API response for a user's wallet balance
type BalanceResponse struct {
	UserID  uint64  `json:"userId"`
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
}

// PayoutHistoryEntry represents one payout receipt in a user's history
type PayoutHistoryEntry struct {
	PayoutID  uint64  `json:"payoutId"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
	TxID      string  `json:"txId"`
}

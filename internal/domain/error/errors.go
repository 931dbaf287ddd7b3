package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount       = 4001
	CodeInvalidCredentials  = 4002
	CodeInvalidUserID       = 4003
	CodeInvalidSession      = 4004
	CodeNoShares            = 4005
	CodeConstraintViolation = 4006
	CodeUnknownUser         = 4040
	CodeWalletNotFound      = 4041
	CodeDuplicateUser       = 4090
	CodePoolLocked          = 4230

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrUnknownUser is returned when a join references an identity that does not exist
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidSession is returned when a heartbeat or share references a session
	// that does not exist or is no longer active
	ErrInvalidSession = errors.New("invalid session")

	// ErrInvalidAmount is returned when a payout is requested with a non-positive reward
	ErrInvalidAmount = errors.New("invalid reward amount")

	// ErrNoShares is returned when a payout is requested while no active session
	// holds any shares
	ErrNoShares = errors.New("no shares to pay out")

	// ErrInvalidCredentials is returned when a login attempt fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrInvalidUsername is returned when the username is empty
	ErrInvalidUsername = errors.New("username cannot be empty")

	// ErrInvalidPassword is returned when the password is empty
	ErrInvalidPassword = errors.New("password cannot be empty")

	// ErrDuplicateUser is returned when registering a username that already exists
	ErrDuplicateUser = errors.New("username already exists")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrWalletNotFound is returned when the requested wallet doesn't exist
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrSessionNotFound is returned when the requested miner session doesn't exist
	ErrSessionNotFound = errors.New("miner session not found")

	// ErrNegativeCredit is returned when a wallet credit would be negative
	ErrNegativeCredit = errors.New("wallet credit cannot be negative")

	// ErrPoolLocked is returned when a payout run is already in progress
	ErrPoolLocked = errors.New("payout run already in progress")

	// ErrTotalUnavailable is returned when a share was committed but the fresh
	// pool-wide total could not be read afterwards. The share itself is counted.
	ErrTotalUnavailable = errors.New("share recorded but pool total unavailable")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrInvalidUserID), errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidPassword):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidSession), errors.Is(err, ErrSessionNotFound):
		return CodeInvalidSession
	case errors.Is(err, ErrNoShares):
		return CodeNoShares
	case errors.Is(err, ErrUnknownUser), errors.Is(err, ErrUserNotFound):
		return CodeUnknownUser
	case errors.Is(err, ErrWalletNotFound):
		return CodeWalletNotFound
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrPoolLocked):
		return CodePoolLocked
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	default:
		return CodeInternalServer
	}
}

// SessionError represents an error related to a miner session operation
type SessionError struct {
	SessionID uint64
	UserID    uint64
	Operation string
	Err       error
}

// Error implements the error interface for SessionError
func (e *SessionError) Error() string {
	return fmt.Sprintf("session operation %s failed for session %d (user: %d): %v",
		e.Operation, e.SessionID, e.UserID, e.Err)
}

// Unwrap returns the underlying error
func (e *SessionError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *SessionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "session_error",
		"session_id": e.SessionID,
		"user_id":    e.UserID,
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewSessionError creates a detailed session error
func NewSessionError(sessionID, userID uint64, operation string, err error) error {
	return &SessionError{
		SessionID: sessionID,
		UserID:    userID,
		Operation: operation,
		Err:       err,
	}
}

// PayoutError represents an error that aborted a payout run
type PayoutError struct {
	TotalReward float64
	Reason      string
	Err         error
}

// Error implements the error interface for PayoutError
func (e *PayoutError) Error() string {
	return fmt.Sprintf("payout run failed (reward: %v): %s - %v", e.TotalReward, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *PayoutError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *PayoutError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "payout_error",
		"total_reward": e.TotalReward,
		"reason":       e.Reason,
		"error":        e.Err.Error(),
		"error_code":   ErrorCode(e.Err),
	}
}

// NewPayoutError creates a detailed payout error
func NewPayoutError(totalReward float64, reason string, err error) error {
	return &PayoutError{
		TotalReward: totalReward,
		Reason:      reason,
		Err:         err,
	}
}

// IsUnknownUserError checks if the error refers to a missing user identity
func IsUnknownUserError(err error) bool {
	return errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrUserNotFound)
}

// IsInvalidSessionError checks if the error refers to a missing or inactive session
func IsInvalidSessionError(err error) bool {
	return errors.Is(err, ErrInvalidSession) || errors.Is(err, ErrSessionNotFound)
}

// IsInvalidAmountError checks if the error is a non-positive reward rejection
func IsInvalidAmountError(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

// IsNoSharesError checks if the error is a zero-share payout rejection
func IsNoSharesError(err error) bool {
	return errors.Is(err, ErrNoShares)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrWalletNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsPoolLockedError checks if the error is a concurrent payout rejection
func IsPoolLockedError(err error) bool {
	return errors.Is(err, ErrPoolLocked)
}

// IsTotalUnavailableError checks if a share was committed without a readable
// pool-wide total
func IsTotalUnavailableError(err error) bool {
	return errors.Is(err, ErrTotalUnavailable)
}

package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/domain/port/persistence"
)

// Service handles user registration, login and balance lookups. The share
// ledger treats identity as already resolved; this service is the thin layer
// that resolves it.
type Service struct {
	uow          persistence.UnitOfWork
	users        persistence.UserRepository
	wallets      persistence.WalletRepository
	payouts      persistence.PayoutRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a user service
func NewService(
	uow persistence.UnitOfWork,
	users persistence.UserRepository,
	wallets persistence.WalletRepository,
	payouts persistence.PayoutRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		users:        users,
		wallets:      wallets,
		payouts:      payouts,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Register creates a user and their wallet atomically. The wallet address is
// an opaque simulated string minted once, never regenerated.
//
// Possible errors:
// - ErrInvalidUsername / ErrInvalidPassword: empty inputs
// - ErrDuplicateUser: the username is taken
// - ErrDatabaseConnection: the store failed; neither row is created
func (s *Service) Register(ctx context.Context, username, password string) (*entity.User, *entity.Wallet, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" {
		return nil, nil, errs.ErrInvalidUsername
	}
	if password == "" {
		return nil, nil, errs.ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user, err := entity.NewUser(username, string(hash), s.timeProvider)
	if err != nil {
		return nil, nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}

	usersTx := s.uow.GetUserRepository(txCtx)
	if err := usersTx.Create(txCtx, user); err != nil {
		s.rollback(txCtx)
		return nil, nil, err
	}

	wallet, err := entity.NewWallet(user.ID, mintWalletAddress())
	if err != nil {
		s.rollback(txCtx)
		return nil, nil, err
	}

	walletsTx := s.uow.GetWalletRepository(txCtx)
	if err := walletsTx.Create(txCtx, wallet); err != nil {
		s.rollback(txCtx)
		return nil, nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	s.logger.Info("User registered", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
		"address":  wallet.Address,
	})

	return user, wallet, nil
}

// Authenticate verifies username and password.
//
// Possible errors:
//   - ErrInvalidCredentials: unknown username or wrong password; the two cases
//     are deliberately indistinguishable to the caller
//   - ErrDatabaseConnection: the store failed
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errs.IsNotFoundError(err) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	return user, nil
}

// GetWallet returns the wallet of the given user
//
// Possible errors:
// - ErrWalletNotFound: the user has no wallet
// - ErrDatabaseConnection: the store failed
func (s *Service) GetWallet(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	return s.wallets.GetByUserID(ctx, userID)
}

// GetPayoutHistory returns the user's payout receipts, newest first
//
// Possible errors:
// - ErrDatabaseConnection: the store failed
func (s *Service) GetPayoutHistory(ctx context.Context, userID uint64) ([]*entity.Payout, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	return s.payouts.ListByUser(ctx, userID)
}

// rollback discards the transaction, logging instead of failing when the
// rollback itself errors
func (s *Service) rollback(txCtx context.Context) {
	if err := s.uow.Rollback(txCtx); err != nil {
		s.logger.Error("Failed to rollback user registration", map[string]any{
			"error": err.Error(),
		})
	}
}

// mintWalletAddress mints an opaque simulated wallet address
func mintWalletAddress() string {
	return "SIM-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

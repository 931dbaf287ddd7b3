package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	"github.com/poolworks/pool-ledger/mocks/port/core"
	"github.com/poolworks/pool-ledger/mocks/port/persistence"
)

type ctxKey string

func TestService_Register(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	txCtx := context.WithValue(ctx, ctxKey("tx"), true)

	t.Run("should create the user and wallet atomically", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockUsers := new(persistence.MockUserRepository)
		mockWallets := new(persistence.MockWalletRepository)
		mockPayouts := new(persistence.MockPayoutRepository)
		mockTxUsers := new(persistence.MockUserRepository)
		mockTxWallets := new(persistence.MockWalletRepository)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetUserRepository", txCtx).Return(mockTxUsers)
		mockUow.On("GetWalletRepository", txCtx).Return(mockTxWallets)
		mockUow.On("Commit", txCtx).Return(nil)

		mockTxUsers.On("Create", txCtx, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*entity.User).ID = 7
			}).Return(nil)
		mockTxWallets.On("Create", txCtx, mock.AnythingOfType("*entity.Wallet")).Return(nil)
		mockLogger.On("Info", "User registered", mock.AnythingOfType("map[string]interface {}")).Return()

		service := NewService(mockUow, mockUsers, mockWallets, mockPayouts, mockTimeProvider, mockLogger)

		user, wallet, err := service.Register(ctx, "miner-alice", "secret")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.NotNil(t, wallet)
		assert.Equal(t, "miner-alice", user.Username)
		assert.Equal(t, uint64(7), wallet.UserID)
		assert.True(t, strings.HasPrefix(wallet.Address, "SIM-"))
		assert.Equal(t, 0.0, wallet.Balance())

		// The stored hash must verify against the original password
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))

		mockUow.AssertExpectations(t)
		mockTxUsers.AssertExpectations(t)
		mockTxWallets.AssertExpectations(t)
		mockUow.AssertNotCalled(t, "Rollback")
	})

	t.Run("should reject empty inputs before touching the store", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		service := NewService(mockUow, new(persistence.MockUserRepository), new(persistence.MockWalletRepository), new(persistence.MockPayoutRepository), mockTimeProvider, mockLogger)

		_, _, err := service.Register(ctx, "   ", "secret")
		assert.ErrorIs(t, err, errs.ErrInvalidUsername)

		_, _, err = service.Register(ctx, "miner-alice", "  ")
		assert.ErrorIs(t, err, errs.ErrInvalidPassword)

		mockUow.AssertNotCalled(t, "Begin")
	})

	t.Run("should roll back on a duplicate username", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockTxUsers := new(persistence.MockUserRepository)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetUserRepository", txCtx).Return(mockTxUsers)
		mockUow.On("Rollback", txCtx).Return(nil)

		mockTxUsers.On("Create", txCtx, mock.AnythingOfType("*entity.User")).Return(errs.ErrDuplicateUser)

		service := NewService(mockUow, new(persistence.MockUserRepository), new(persistence.MockWalletRepository), new(persistence.MockPayoutRepository), mockTimeProvider, mockLogger)

		user, wallet, err := service.Register(ctx, "miner-alice", "secret")

		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Nil(t, wallet)
		assert.ErrorIs(t, err, errs.ErrDuplicateUser)
		mockUow.AssertExpectations(t)
		mockUow.AssertNotCalled(t, "Commit")
	})

	t.Run("should roll back when the wallet cannot be created", func(t *testing.T) {
		dbError := errors.New("database connection error")

		mockUow := new(persistence.MockUnitOfWork)
		mockTxUsers := new(persistence.MockUserRepository)
		mockTxWallets := new(persistence.MockWalletRepository)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetUserRepository", txCtx).Return(mockTxUsers)
		mockUow.On("GetWalletRepository", txCtx).Return(mockTxWallets)
		mockUow.On("Rollback", txCtx).Return(nil)

		mockTxUsers.On("Create", txCtx, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*entity.User).ID = 7
			}).Return(nil)
		mockTxWallets.On("Create", txCtx, mock.AnythingOfType("*entity.Wallet")).Return(dbError)

		service := NewService(mockUow, new(persistence.MockUserRepository), new(persistence.MockWalletRepository), new(persistence.MockPayoutRepository), mockTimeProvider, mockLogger)

		user, wallet, err := service.Register(ctx, "miner-alice", "secret")

		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Nil(t, wallet)
		assert.Equal(t, dbError, err)
		mockUow.AssertExpectations(t)
		mockUow.AssertNotCalled(t, "Commit")
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	t.Run("should authenticate a valid login", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		stored := &entity.User{ID: 7, Username: "miner-alice", PasswordHash: string(hash)}
		mockUsers.On("GetByUsername", ctx, "miner-alice").Return(stored, nil)

		service := NewService(new(persistence.MockUnitOfWork), mockUsers, new(persistence.MockWalletRepository), new(persistence.MockPayoutRepository), mockTimeProvider, mockLogger)

		user, err := service.Authenticate(ctx, "miner-alice", "secret")

		assert.NoError(t, err)
		assert.Equal(t, stored, user)
	})

	t.Run("should hide whether the username or the password was wrong", func(t *testing.T) {
		mockUsers := new(persistence.MockUserRepository)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		stored := &entity.User{ID: 7, Username: "miner-alice", PasswordHash: string(hash)}
		mockUsers.On("GetByUsername", ctx, "miner-alice").Return(stored, nil)
		mockUsers.On("GetByUsername", ctx, "nobody").Return(nil, errs.ErrUserNotFound)

		service := NewService(new(persistence.MockUnitOfWork), mockUsers, new(persistence.MockWalletRepository), new(persistence.MockPayoutRepository), mockTimeProvider, mockLogger)

		_, wrongPassword := service.Authenticate(ctx, "miner-alice", "wrong")
		_, unknownUser := service.Authenticate(ctx, "nobody", "secret")

		assert.ErrorIs(t, wrongPassword, errs.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownUser, errs.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword, unknownUser)
	})

	t.Run("should surface a store failure as-is", func(t *testing.T) {
		dbError := errors.New("database connection error")

		mockUsers := new(persistence.MockUserRepository)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockUsers.On("GetByUsername", ctx, "miner-alice").Return(nil, dbError)

		service := NewService(new(persistence.MockUnitOfWork), mockUsers, new(persistence.MockWalletRepository), new(persistence.MockPayoutRepository), mockTimeProvider, mockLogger)

		user, err := service.Authenticate(ctx, "miner-alice", "secret")

		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Equal(t, dbError, err)
	})
}

func TestService_GetWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the user's wallet", func(t *testing.T) {
		mockWallets := new(persistence.MockWalletRepository)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		wallet, _ := entity.NewWallet(7, "SIM-abc")
		mockWallets.On("GetByUserID", ctx, uint64(7)).Return(wallet, nil)

		service := NewService(new(persistence.MockUnitOfWork), new(persistence.MockUserRepository), mockWallets, new(persistence.MockPayoutRepository), mockTimeProvider, mockLogger)

		got, err := service.GetWallet(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, wallet, got)
	})

	t.Run("should reject a zero user ID", func(t *testing.T) {
		mockWallets := new(persistence.MockWalletRepository)

		service := NewService(new(persistence.MockUnitOfWork), new(persistence.MockUserRepository), mockWallets, new(persistence.MockPayoutRepository), new(core.MockTimeProvider), new(core.MockLogger))

		got, err := service.GetWallet(ctx, 0)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		mockWallets.AssertNotCalled(t, "GetByUserID")
	})
}

func TestService_GetPayoutHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the payout receipts", func(t *testing.T) {
		mockPayouts := new(persistence.MockPayoutRepository)

		history := []*entity.Payout{
			{ID: 2, UserID: 7, Amount: 25.0, TxID: "SIM-TX-b"},
			{ID: 1, UserID: 7, Amount: 75.0, TxID: "SIM-TX-a"},
		}
		mockPayouts.On("ListByUser", ctx, uint64(7)).Return(history, nil)

		service := NewService(new(persistence.MockUnitOfWork), new(persistence.MockUserRepository), new(persistence.MockWalletRepository), mockPayouts, new(core.MockTimeProvider), new(core.MockLogger))

		got, err := service.GetPayoutHistory(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, history, got)
	})

	t.Run("should reject a zero user ID", func(t *testing.T) {
		mockPayouts := new(persistence.MockPayoutRepository)

		service := NewService(new(persistence.MockUnitOfWork), new(persistence.MockUserRepository), new(persistence.MockWalletRepository), mockPayouts, new(core.MockTimeProvider), new(core.MockLogger))

		got, err := service.GetPayoutHistory(ctx, 0)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		mockPayouts.AssertNotCalled(t, "ListByUser")
	})
}

package payout

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	errs "github.com/poolworks/pool-ledger/internal/domain/error"
	"github.com/poolworks/pool-ledger/internal/domain/port/broadcast"
	mockBroadcast "github.com/poolworks/pool-ledger/mocks/port/broadcast"
	"github.com/poolworks/pool-ledger/mocks/port/core"
	"github.com/poolworks/pool-ledger/mocks/port/persistence"
)

type ctxKey string

func TestEngine_Distribute(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	txCtx := context.WithValue(ctx, ctxKey("tx"), true)
	livenessTimeout := 60 * time.Second
	lockTimeout := 30 * time.Second

	t.Run("should split the reward proportionally by share count", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockTxSessions := new(persistence.MockSessionRepository)
		mockTxWallets := new(persistence.MockWalletRepository)
		mockTxPayouts := new(persistence.MockPayoutRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockLocks.On("AcquireLock", ctx, "payout_epoch", lockTimeout).Return(nil)
		mockLocks.On("ReleaseLock", ctx, "payout_epoch").Return(nil)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetSessionRepository", txCtx).Return(mockTxSessions)
		mockUow.On("GetWalletRepository", txCtx).Return(mockTxWallets)
		mockUow.On("GetPayoutRepository", txCtx).Return(mockTxPayouts)
		mockUow.On("Commit", txCtx).Return(nil)

		// Miner A holds 3 of 4 shares, miner B holds 1 of 4
		active := []*entity.MinerSession{
			{ID: 1, UserID: 10, Active: true, Shares: 3},
			{ID: 2, UserID: 20, Active: true, Shares: 1},
		}
		mockTxSessions.On("DemoteStale", txCtx, fixedTime.Add(-livenessTimeout)).Return(int64(0), nil)
		mockTxSessions.On("ListActiveForUpdate", txCtx).Return(active, nil)
		mockTxSessions.On("ResetShares", txCtx, uint64(1)).Return(nil)
		mockTxSessions.On("ResetShares", txCtx, uint64(2)).Return(nil)

		walletA, _ := entity.NewWallet(10, "SIM-a")
		walletB, _ := entity.NewWallet(20, "SIM-b")
		mockTxWallets.On("Credit", txCtx, uint64(10), 75.0).Return(walletA, nil)
		mockTxWallets.On("Credit", txCtx, uint64(20), 25.0).Return(walletB, nil)

		mockTxPayouts.On("Create", txCtx, mock.AnythingOfType("*entity.Payout")).Return(nil).Times(2)

		walletA.SetBalance(75.0)
		walletB.SetBalance(25.0)
		mockWallets.On("ListAll", ctx).Return([]*entity.Wallet{walletA, walletB}, nil)

		mockGateway.On("Publish", broadcast.EventPayouts, mock.Anything).Return()
		mockGateway.On("Publish", broadcast.EventBalances, mock.Anything).Return()
		mockLogger.On("Info", "Payout run committed", mock.AnythingOfType("map[string]interface {}")).Return()

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		results, err := engine.Distribute(ctx, 100.0)

		assert.NoError(t, err)
		assert.Equal(t, []entity.PayoutResult{
			{UserID: 10, Amount: 75.0},
			{UserID: 20, Amount: 25.0},
		}, results)

		mockUow.AssertExpectations(t)
		mockLocks.AssertExpectations(t)
		mockTxSessions.AssertExpectations(t)
		mockTxWallets.AssertExpectations(t)
		mockTxPayouts.AssertExpectations(t)
		mockGateway.AssertExpectations(t)
		mockUow.AssertNotCalled(t, "Rollback")
	})

	t.Run("should include zero-share sessions with amount zero", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockTxSessions := new(persistence.MockSessionRepository)
		mockTxWallets := new(persistence.MockWalletRepository)
		mockTxPayouts := new(persistence.MockPayoutRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockLocks.On("AcquireLock", ctx, "payout_epoch", lockTimeout).Return(nil)
		mockLocks.On("ReleaseLock", ctx, "payout_epoch").Return(nil)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetSessionRepository", txCtx).Return(mockTxSessions)
		mockUow.On("GetWalletRepository", txCtx).Return(mockTxWallets)
		mockUow.On("GetPayoutRepository", txCtx).Return(mockTxPayouts)
		mockUow.On("Commit", txCtx).Return(nil)

		active := []*entity.MinerSession{
			{ID: 1, UserID: 10, Active: true, Shares: 4},
			{ID: 2, UserID: 20, Active: true, Shares: 0},
		}
		mockTxSessions.On("DemoteStale", txCtx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockTxSessions.On("ListActiveForUpdate", txCtx).Return(active, nil)
		mockTxSessions.On("ResetShares", txCtx, mock.AnythingOfType("uint64")).Return(nil).Times(2)

		walletA, _ := entity.NewWallet(10, "SIM-a")
		walletB, _ := entity.NewWallet(20, "SIM-b")
		mockTxWallets.On("Credit", txCtx, uint64(10), 100.0).Return(walletA, nil)
		mockTxWallets.On("Credit", txCtx, uint64(20), 0.0).Return(walletB, nil)
		mockTxPayouts.On("Create", txCtx, mock.AnythingOfType("*entity.Payout")).Return(nil).Times(2)

		mockWallets.On("ListAll", ctx).Return([]*entity.Wallet{walletA, walletB}, nil)
		mockGateway.On("Publish", mock.AnythingOfType("string"), mock.Anything).Return()
		mockLogger.On("Info", "Payout run committed", mock.AnythingOfType("map[string]interface {}")).Return()

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		results, err := engine.Distribute(ctx, 100.0)

		assert.NoError(t, err)
		assert.Equal(t, []entity.PayoutResult{
			{UserID: 10, Amount: 100.0},
			{UserID: 20, Amount: 0.0},
		}, results)
	})

	t.Run("should conserve the reward across uneven share counts", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockTxSessions := new(persistence.MockSessionRepository)
		mockTxWallets := new(persistence.MockWalletRepository)
		mockTxPayouts := new(persistence.MockPayoutRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockLocks.On("AcquireLock", ctx, "payout_epoch", lockTimeout).Return(nil)
		mockLocks.On("ReleaseLock", ctx, "payout_epoch").Return(nil)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetSessionRepository", txCtx).Return(mockTxSessions)
		mockUow.On("GetWalletRepository", txCtx).Return(mockTxWallets)
		mockUow.On("GetPayoutRepository", txCtx).Return(mockTxPayouts)
		mockUow.On("Commit", txCtx).Return(nil)

		active := []*entity.MinerSession{
			{ID: 1, UserID: 10, Active: true, Shares: 1},
			{ID: 2, UserID: 20, Active: true, Shares: 2},
			{ID: 3, UserID: 30, Active: true, Shares: 4},
		}
		mockTxSessions.On("DemoteStale", txCtx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockTxSessions.On("ListActiveForUpdate", txCtx).Return(active, nil)
		mockTxSessions.On("ResetShares", txCtx, mock.AnythingOfType("uint64")).Return(nil).Times(3)

		// Capture the full-precision credited amounts
		var credited float64
		wallet, _ := entity.NewWallet(1, "SIM-x")
		mockTxWallets.On("Credit", txCtx, mock.AnythingOfType("uint64"), mock.AnythingOfType("float64")).
			Run(func(args mock.Arguments) {
				credited += args.Get(2).(float64)
			}).Return(wallet, nil).Times(3)
		mockTxPayouts.On("Create", txCtx, mock.AnythingOfType("*entity.Payout")).Return(nil).Times(3)

		mockWallets.On("ListAll", ctx).Return([]*entity.Wallet{}, nil)
		mockGateway.On("Publish", mock.AnythingOfType("string"), mock.Anything).Return()
		mockLogger.On("Info", "Payout run committed", mock.AnythingOfType("map[string]interface {}")).Return()

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		totalReward := 0.1
		results, err := engine.Distribute(ctx, totalReward)

		assert.NoError(t, err)
		assert.Len(t, results, 3)
		assert.InDelta(t, totalReward, credited, 1e-9)

		var reported float64
		for _, r := range results {
			reported += r.Amount
		}
		assert.InDelta(t, totalReward, reported, 1e-7)
	})

	t.Run("should reject a non-positive or non-finite reward", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		for _, reward := range []float64{0, -10, math.NaN(), math.Inf(1)} {
			results, err := engine.Distribute(ctx, reward)
			assert.Error(t, err)
			assert.Nil(t, results)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		}

		mockLocks.AssertNotCalled(t, "AcquireLock")
		mockUow.AssertNotCalled(t, "Begin")
	})

	t.Run("should reject a run while another holds the lock", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockLocks.On("AcquireLock", ctx, "payout_epoch", lockTimeout).Return(errs.ErrPoolLocked)

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		results, err := engine.Distribute(ctx, 100.0)

		assert.Error(t, err)
		assert.Nil(t, results)
		assert.ErrorIs(t, err, errs.ErrPoolLocked)
		mockUow.AssertNotCalled(t, "Begin")
		mockLocks.AssertNotCalled(t, "ReleaseLock")
	})

	t.Run("should roll back everything when no shares exist", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockTxSessions := new(persistence.MockSessionRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockLocks.On("AcquireLock", ctx, "payout_epoch", lockTimeout).Return(nil)
		mockLocks.On("ReleaseLock", ctx, "payout_epoch").Return(nil)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetSessionRepository", txCtx).Return(mockTxSessions)
		mockUow.On("Rollback", txCtx).Return(nil)

		active := []*entity.MinerSession{
			{ID: 1, UserID: 10, Active: true, Shares: 0},
			{ID: 2, UserID: 20, Active: true, Shares: 0},
		}
		mockTxSessions.On("DemoteStale", txCtx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockTxSessions.On("ListActiveForUpdate", txCtx).Return(active, nil)
		mockLogger.On("Warn", "Payout rejected: no shares across active sessions", mock.AnythingOfType("map[string]interface {}")).Return()

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		results, err := engine.Distribute(ctx, 100.0)

		assert.Error(t, err)
		assert.Nil(t, results)
		assert.ErrorIs(t, err, errs.ErrNoShares)
		mockUow.AssertExpectations(t)
		mockUow.AssertNotCalled(t, "Commit")
		mockGateway.AssertNotCalled(t, "Publish")
		mockLocks.AssertExpectations(t)
	})

	t.Run("should roll back the whole run when a credit fails", func(t *testing.T) {
		dbError := errors.New("database connection error")

		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockTxSessions := new(persistence.MockSessionRepository)
		mockTxWallets := new(persistence.MockWalletRepository)
		mockTxPayouts := new(persistence.MockPayoutRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockLocks.On("AcquireLock", ctx, "payout_epoch", lockTimeout).Return(nil)
		mockLocks.On("ReleaseLock", ctx, "payout_epoch").Return(nil)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetSessionRepository", txCtx).Return(mockTxSessions)
		mockUow.On("GetWalletRepository", txCtx).Return(mockTxWallets)
		mockUow.On("GetPayoutRepository", txCtx).Return(mockTxPayouts)
		mockUow.On("Rollback", txCtx).Return(nil)

		active := []*entity.MinerSession{
			{ID: 1, UserID: 10, Active: true, Shares: 4},
		}
		mockTxSessions.On("DemoteStale", txCtx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockTxSessions.On("ListActiveForUpdate", txCtx).Return(active, nil)
		mockTxWallets.On("Credit", txCtx, uint64(10), 100.0).Return(nil, dbError)

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		results, err := engine.Distribute(ctx, 100.0)

		assert.Error(t, err)
		assert.Nil(t, results)

		var payoutErr *errs.PayoutError
		assert.True(t, errors.As(err, &payoutErr))
		assert.ErrorIs(t, err, dbError)

		mockUow.AssertExpectations(t)
		mockUow.AssertNotCalled(t, "Commit")
		mockGateway.AssertNotCalled(t, "Publish")
	})

	t.Run("should broadcast only after the commit", func(t *testing.T) {
		mockUow := new(persistence.MockUnitOfWork)
		mockWallets := new(persistence.MockWalletRepository)
		mockLocks := new(persistence.MockPoolLockRepository)
		mockTxSessions := new(persistence.MockSessionRepository)
		mockTxWallets := new(persistence.MockWalletRepository)
		mockTxPayouts := new(persistence.MockPayoutRepository)
		mockGateway := new(mockBroadcast.MockGateway)
		mockTimeProvider := new(core.MockTimeProvider)
		mockLogger := new(core.MockLogger)

		mockTimeProvider.On("Now").Return(fixedTime)

		mockLocks.On("AcquireLock", ctx, "payout_epoch", lockTimeout).Return(nil)
		mockLocks.On("ReleaseLock", ctx, "payout_epoch").Return(nil)

		mockUow.On("Begin", ctx).Return(txCtx, nil)
		mockUow.On("GetSessionRepository", txCtx).Return(mockTxSessions)
		mockUow.On("GetWalletRepository", txCtx).Return(mockTxWallets)
		mockUow.On("GetPayoutRepository", txCtx).Return(mockTxPayouts)

		committed := false
		mockUow.On("Commit", txCtx).Run(func(mock.Arguments) {
			committed = true
		}).Return(nil)

		active := []*entity.MinerSession{
			{ID: 1, UserID: 10, Active: true, Shares: 1},
		}
		mockTxSessions.On("DemoteStale", txCtx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockTxSessions.On("ListActiveForUpdate", txCtx).Return(active, nil)
		mockTxSessions.On("ResetShares", txCtx, uint64(1)).Return(nil)

		wallet, _ := entity.NewWallet(10, "SIM-a")
		mockTxWallets.On("Credit", txCtx, uint64(10), 100.0).Return(wallet, nil)
		mockTxPayouts.On("Create", txCtx, mock.AnythingOfType("*entity.Payout")).Return(nil)

		mockWallets.On("ListAll", ctx).Return([]*entity.Wallet{wallet}, nil)

		publishedAfterCommit := true
		mockGateway.On("Publish", mock.AnythingOfType("string"), mock.Anything).Run(func(mock.Arguments) {
			if !committed {
				publishedAfterCommit = false
			}
		}).Return()
		mockLogger.On("Info", "Payout run committed", mock.AnythingOfType("map[string]interface {}")).Return()

		engine := NewEngine(mockUow, mockWallets, mockLocks, mockGateway, mockTimeProvider, mockLogger, livenessTimeout, lockTimeout)

		_, err := engine.Distribute(ctx, 100.0)

		assert.NoError(t, err)
		assert.True(t, publishedAfterCommit)
	})
}

func TestNewEngine(t *testing.T) {
	t.Run("should fall back to the default lock timeout", func(t *testing.T) {
		engine := NewEngine(nil, nil, nil, nil, nil, nil, 60*time.Second, 0)
		assert.Equal(t, DefaultLockTimeout, engine.lockTimeout)
	})
}

package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockWalletRepository is a testify mock for persistence.WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

// NewMockWalletRepository creates a MockWalletRepository that asserts its expectations on cleanup
func NewMockWalletRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWalletRepository {
	m := &MockWalletRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockWalletRepository_Expecter provides a typed expectation builder
type MockWalletRepository_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockWalletRepository) EXPECT() *MockWalletRepository_Expecter {
	return &MockWalletRepository_Expecter{mock: &m.Mock}
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	ret := m.Called(ctx, userID)
	var r0 *entity.Wallet
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Wallet)
	}
	return r0, ret.Error(1)
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	ret := m.Called(ctx, wallet)
	return ret.Error(0)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID uint64, amount float64) (*entity.Wallet, error) {
	ret := m.Called(ctx, userID, amount)
	var r0 *entity.Wallet
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Wallet)
	}
	return r0, ret.Error(1)
}

func (m *MockWalletRepository) ListAll(ctx context.Context) ([]*entity.Wallet, error) {
	ret := m.Called(ctx)
	var r0 []*entity.Wallet
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Wallet)
	}
	return r0, ret.Error(1)
}

func (e *MockWalletRepository_Expecter) GetByUserID(ctx, userID interface{}) *mock.Call {
	return e.mock.On("GetByUserID", ctx, userID)
}

func (e *MockWalletRepository_Expecter) Create(ctx, wallet interface{}) *mock.Call {
	return e.mock.On("Create", ctx, wallet)
}

func (e *MockWalletRepository_Expecter) Credit(ctx, userID, amount interface{}) *mock.Call {
	return e.mock.On("Credit", ctx, userID, amount)
}

func (e *MockWalletRepository_Expecter) ListAll(ctx interface{}) *mock.Call {
	return e.mock.On("ListAll", ctx)
}

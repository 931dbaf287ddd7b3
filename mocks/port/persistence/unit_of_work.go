package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a testify mock for persistence.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

// NewMockUnitOfWork creates a MockUnitOfWork that asserts its expectations on cleanup
func NewMockUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockUnitOfWork_Expecter provides a typed expectation builder
type MockUnitOfWork_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockUnitOfWork) EXPECT() *MockUnitOfWork_Expecter {
	return &MockUnitOfWork_Expecter{mock: &m.Mock}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	ret := m.Called(ctx)
	var r0 context.Context
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(context.Context)
	}
	return r0, ret.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

func (m *MockUnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	ret := m.Called(ctx)
	var r0 persistence.UserRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(persistence.UserRepository)
	}
	return r0
}

func (m *MockUnitOfWork) GetWalletRepository(ctx context.Context) persistence.WalletRepository {
	ret := m.Called(ctx)
	var r0 persistence.WalletRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(persistence.WalletRepository)
	}
	return r0
}

func (m *MockUnitOfWork) GetSessionRepository(ctx context.Context) persistence.SessionRepository {
	ret := m.Called(ctx)
	var r0 persistence.SessionRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(persistence.SessionRepository)
	}
	return r0
}

func (m *MockUnitOfWork) GetShareRepository(ctx context.Context) persistence.ShareRepository {
	ret := m.Called(ctx)
	var r0 persistence.ShareRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(persistence.ShareRepository)
	}
	return r0
}

func (m *MockUnitOfWork) GetPayoutRepository(ctx context.Context) persistence.PayoutRepository {
	ret := m.Called(ctx)
	var r0 persistence.PayoutRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(persistence.PayoutRepository)
	}
	return r0
}

func (e *MockUnitOfWork_Expecter) Begin(ctx interface{}) *mock.Call {
	return e.mock.On("Begin", ctx)
}

func (e *MockUnitOfWork_Expecter) Commit(ctx interface{}) *mock.Call {
	return e.mock.On("Commit", ctx)
}

func (e *MockUnitOfWork_Expecter) Rollback(ctx interface{}) *mock.Call {
	return e.mock.On("Rollback", ctx)
}

func (e *MockUnitOfWork_Expecter) GetUserRepository(ctx interface{}) *mock.Call {
	return e.mock.On("GetUserRepository", ctx)
}

func (e *MockUnitOfWork_Expecter) GetWalletRepository(ctx interface{}) *mock.Call {
	return e.mock.On("GetWalletRepository", ctx)
}

func (e *MockUnitOfWork_Expecter) GetSessionRepository(ctx interface{}) *mock.Call {
	return e.mock.On("GetSessionRepository", ctx)
}

func (e *MockUnitOfWork_Expecter) GetShareRepository(ctx interface{}) *mock.Call {
	return e.mock.On("GetShareRepository", ctx)
}

func (e *MockUnitOfWork_Expecter) GetPayoutRepository(ctx interface{}) *mock.Call {
	return e.mock.On("GetPayoutRepository", ctx)
}

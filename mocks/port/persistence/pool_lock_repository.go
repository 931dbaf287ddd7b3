package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockPoolLockRepository is a testify mock for persistence.PoolLockRepository
type MockPoolLockRepository struct {
	mock.Mock
}

// NewMockPoolLockRepository creates a MockPoolLockRepository that asserts its expectations on cleanup
func NewMockPoolLockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPoolLockRepository {
	m := &MockPoolLockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockPoolLockRepository_Expecter provides a typed expectation builder
type MockPoolLockRepository_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockPoolLockRepository) EXPECT() *MockPoolLockRepository_Expecter {
	return &MockPoolLockRepository_Expecter{mock: &m.Mock}
}

func (m *MockPoolLockRepository) AcquireLock(ctx context.Context, name string, duration time.Duration) error {
	ret := m.Called(ctx, name, duration)
	return ret.Error(0)
}

func (m *MockPoolLockRepository) ReleaseLock(ctx context.Context, name string) error {
	ret := m.Called(ctx, name)
	return ret.Error(0)
}

func (e *MockPoolLockRepository_Expecter) AcquireLock(ctx, name, duration interface{}) *mock.Call {
	return e.mock.On("AcquireLock", ctx, name, duration)
}

func (e *MockPoolLockRepository_Expecter) ReleaseLock(ctx, name interface{}) *mock.Call {
	return e.mock.On("ReleaseLock", ctx, name)
}

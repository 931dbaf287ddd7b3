package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockShareRepository is a testify mock for persistence.ShareRepository
type MockShareRepository struct {
	mock.Mock
}

// NewMockShareRepository creates a MockShareRepository that asserts its expectations on cleanup
func NewMockShareRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockShareRepository {
	m := &MockShareRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockShareRepository_Expecter provides a typed expectation builder
type MockShareRepository_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockShareRepository) EXPECT() *MockShareRepository_Expecter {
	return &MockShareRepository_Expecter{mock: &m.Mock}
}

func (m *MockShareRepository) Create(ctx context.Context, share *entity.Share) error {
	ret := m.Called(ctx, share)
	return ret.Error(0)
}

func (m *MockShareRepository) CountBySession(ctx context.Context, sessionID uint64) (int64, error) {
	ret := m.Called(ctx, sessionID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (e *MockShareRepository_Expecter) Create(ctx, share interface{}) *mock.Call {
	return e.mock.On("Create", ctx, share)
}

func (e *MockShareRepository_Expecter) CountBySession(ctx, sessionID interface{}) *mock.Call {
	return e.mock.On("CountBySession", ctx, sessionID)
}

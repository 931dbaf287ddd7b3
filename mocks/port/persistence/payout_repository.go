package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockPayoutRepository is a testify mock for persistence.PayoutRepository
type MockPayoutRepository struct {
	mock.Mock
}

// NewMockPayoutRepository creates a MockPayoutRepository that asserts its expectations on cleanup
func NewMockPayoutRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPayoutRepository {
	m := &MockPayoutRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockPayoutRepository_Expecter provides a typed expectation builder
type MockPayoutRepository_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockPayoutRepository) EXPECT() *MockPayoutRepository_Expecter {
	return &MockPayoutRepository_Expecter{mock: &m.Mock}
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *entity.Payout) error {
	ret := m.Called(ctx, payout)
	return ret.Error(0)
}

func (m *MockPayoutRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Payout, error) {
	ret := m.Called(ctx, userID)
	var r0 []*entity.Payout
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Payout)
	}
	return r0, ret.Error(1)
}

func (e *MockPayoutRepository_Expecter) Create(ctx, payout interface{}) *mock.Call {
	return e.mock.On("Create", ctx, payout)
}

func (e *MockPayoutRepository_Expecter) ListByUser(ctx, userID interface{}) *mock.Call {
	return e.mock.On("ListByUser", ctx, userID)
}

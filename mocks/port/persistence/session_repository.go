package persistence

import (
	"context"
	"time"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a testify mock for persistence.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

// NewMockSessionRepository creates a MockSessionRepository that asserts its expectations on cleanup
func NewMockSessionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockSessionRepository_Expecter provides a typed expectation builder
type MockSessionRepository_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockSessionRepository) EXPECT() *MockSessionRepository_Expecter {
	return &MockSessionRepository_Expecter{mock: &m.Mock}
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uint64) (*entity.MinerSession, error) {
	ret := m.Called(ctx, id)
	var r0 *entity.MinerSession
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.MinerSession)
	}
	return r0, ret.Error(1)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entity.MinerSession) error {
	ret := m.Called(ctx, session)
	return ret.Error(0)
}

func (m *MockSessionRepository) Touch(ctx context.Context, id uint64, now time.Time) error {
	ret := m.Called(ctx, id, now)
	return ret.Error(0)
}

func (m *MockSessionRepository) IncrementShares(ctx context.Context, id uint64, now time.Time) (*entity.MinerSession, error) {
	ret := m.Called(ctx, id, now)
	var r0 *entity.MinerSession
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.MinerSession)
	}
	return r0, ret.Error(1)
}

func (m *MockSessionRepository) Deactivate(ctx context.Context, id uint64) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

func (m *MockSessionRepository) DeactivateByUser(ctx context.Context, userID uint64) (int64, error) {
	ret := m.Called(ctx, userID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *MockSessionRepository) DemoteStale(ctx context.Context, threshold time.Time) (int64, error) {
	ret := m.Called(ctx, threshold)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *MockSessionRepository) ListActive(ctx context.Context) ([]*entity.MinerSession, error) {
	ret := m.Called(ctx)
	var r0 []*entity.MinerSession
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.MinerSession)
	}
	return r0, ret.Error(1)
}

func (m *MockSessionRepository) ListActiveForUpdate(ctx context.Context) ([]*entity.MinerSession, error) {
	ret := m.Called(ctx)
	var r0 []*entity.MinerSession
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.MinerSession)
	}
	return r0, ret.Error(1)
}

func (m *MockSessionRepository) CountActive(ctx context.Context) (int64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *MockSessionRepository) SumActiveShares(ctx context.Context) (int64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *MockSessionRepository) ResetShares(ctx context.Context, id uint64) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

func (e *MockSessionRepository_Expecter) GetByID(ctx, id interface{}) *mock.Call {
	return e.mock.On("GetByID", ctx, id)
}

func (e *MockSessionRepository_Expecter) Create(ctx, session interface{}) *mock.Call {
	return e.mock.On("Create", ctx, session)
}

func (e *MockSessionRepository_Expecter) Touch(ctx, id, now interface{}) *mock.Call {
	return e.mock.On("Touch", ctx, id, now)
}

func (e *MockSessionRepository_Expecter) IncrementShares(ctx, id, now interface{}) *mock.Call {
	return e.mock.On("IncrementShares", ctx, id, now)
}

func (e *MockSessionRepository_Expecter) Deactivate(ctx, id interface{}) *mock.Call {
	return e.mock.On("Deactivate", ctx, id)
}

func (e *MockSessionRepository_Expecter) DeactivateByUser(ctx, userID interface{}) *mock.Call {
	return e.mock.On("DeactivateByUser", ctx, userID)
}

func (e *MockSessionRepository_Expecter) DemoteStale(ctx, threshold interface{}) *mock.Call {
	return e.mock.On("DemoteStale", ctx, threshold)
}

func (e *MockSessionRepository_Expecter) ListActive(ctx interface{}) *mock.Call {
	return e.mock.On("ListActive", ctx)
}

func (e *MockSessionRepository_Expecter) ListActiveForUpdate(ctx interface{}) *mock.Call {
	return e.mock.On("ListActiveForUpdate", ctx)
}

func (e *MockSessionRepository_Expecter) CountActive(ctx interface{}) *mock.Call {
	return e.mock.On("CountActive", ctx)
}

func (e *MockSessionRepository_Expecter) SumActiveShares(ctx interface{}) *mock.Call {
	return e.mock.On("SumActiveShares", ctx)
}

func (e *MockSessionRepository_Expecter) ResetShares(ctx, id interface{}) *mock.Call {
	return e.mock.On("ResetShares", ctx, id)
}

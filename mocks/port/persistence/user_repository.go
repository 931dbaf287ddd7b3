// Package persistence provides test doubles for the persistence ports.
package persistence

import (
	"context"

	"github.com/poolworks/pool-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify mock for persistence.UserRepository
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository that asserts its expectations on cleanup
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockUserRepository_Expecter provides a typed expectation builder
type MockUserRepository_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockUserRepository) EXPECT() *MockUserRepository_Expecter {
	return &MockUserRepository_Expecter{mock: &m.Mock}
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	ret := m.Called(ctx, id)
	var r0 *entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.User)
	}
	return r0, ret.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	ret := m.Called(ctx, username)
	var r0 *entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.User)
	}
	return r0, ret.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	ret := m.Called(ctx, user)
	return ret.Error(0)
}

func (e *MockUserRepository_Expecter) GetByID(ctx, id interface{}) *mock.Call {
	return e.mock.On("GetByID", ctx, id)
}

func (e *MockUserRepository_Expecter) GetByUsername(ctx, username interface{}) *mock.Call {
	return e.mock.On("GetByUsername", ctx, username)
}

func (e *MockUserRepository_Expecter) Create(ctx, user interface{}) *mock.Call {
	return e.mock.On("Create", ctx, user)
}

package core

import (
	"context"
	"time"

	"github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/stretchr/testify/mock"
)

// MockTimeProvider is a testify mock for core.TimeProvider
type MockTimeProvider struct {
	mock.Mock
}

// NewMockTimeProvider creates a MockTimeProvider that asserts its expectations on cleanup
func NewMockTimeProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockTimeProvider_Expecter provides a typed expectation builder
type MockTimeProvider_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockTimeProvider) EXPECT() *MockTimeProvider_Expecter {
	return &MockTimeProvider_Expecter{mock: &m.Mock}
}

func (m *MockTimeProvider) Now() time.Time {
	ret := m.Called()
	return ret.Get(0).(time.Time)
}

func (m *MockTimeProvider) Since(t time.Time) core.Duration {
	ret := m.Called(t)
	return ret.Get(0).(core.Duration)
}

func (m *MockTimeProvider) Until(t time.Time) core.Duration {
	ret := m.Called(t)
	return ret.Get(0).(core.Duration)
}

func (m *MockTimeProvider) Sleep(d core.Duration) {
	m.Called(d)
}

func (m *MockTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	ret := m.Called(ctx, timeout)
	return ret.Get(0).(context.Context), ret.Get(1).(context.CancelFunc)
}

func (m *MockTimeProvider) ParseDuration(s string) (core.Duration, error) {
	ret := m.Called(s)
	return ret.Get(0).(core.Duration), ret.Error(1)
}

func (e *MockTimeProvider_Expecter) Now() *mock.Call {
	return e.mock.On("Now")
}

func (e *MockTimeProvider_Expecter) Since(t interface{}) *mock.Call {
	return e.mock.On("Since", t)
}

func (e *MockTimeProvider_Expecter) Until(t interface{}) *mock.Call {
	return e.mock.On("Until", t)
}

func (e *MockTimeProvider_Expecter) Sleep(d interface{}) *mock.Call {
	return e.mock.On("Sleep", d)
}

func (e *MockTimeProvider_Expecter) WithTimeout(ctx, timeout interface{}) *mock.Call {
	return e.mock.On("WithTimeout", ctx, timeout)
}

func (e *MockTimeProvider_Expecter) ParseDuration(s interface{}) *mock.Call {
	return e.mock.On("ParseDuration", s)
}

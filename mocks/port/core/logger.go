// Package core provides test doubles for the core ports.
package core

import (
	"github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock for core.Logger
type MockLogger struct {
	mock.Mock
}

// NewMockLogger creates a MockLogger that asserts its expectations on cleanup
func NewMockLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogger {
	m := &MockLogger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockLogger_Expecter provides a typed expectation builder
type MockLogger_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockLogger) EXPECT() *MockLogger_Expecter {
	return &MockLogger_Expecter{mock: &m.Mock}
}

func (m *MockLogger) SetLevel(level core.LogLevel) {
	m.Called(level)
}

func (m *MockLogger) GetLevel() core.LogLevel {
	ret := m.Called()
	return ret.Get(0).(core.LogLevel)
}

func (m *MockLogger) Debug(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Info(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Warn(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Error(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Flush() error {
	ret := m.Called()
	return ret.Error(0)
}

func (e *MockLogger_Expecter) SetLevel(level interface{}) *mock.Call {
	return e.mock.On("SetLevel", level)
}

func (e *MockLogger_Expecter) GetLevel() *mock.Call {
	return e.mock.On("GetLevel")
}

func (e *MockLogger_Expecter) Debug(message, fields interface{}) *mock.Call {
	return e.mock.On("Debug", message, fields)
}

func (e *MockLogger_Expecter) Info(message, fields interface{}) *mock.Call {
	return e.mock.On("Info", message, fields)
}

func (e *MockLogger_Expecter) Warn(message, fields interface{}) *mock.Call {
	return e.mock.On("Warn", message, fields)
}

func (e *MockLogger_Expecter) Error(message, fields interface{}) *mock.Call {
	return e.mock.On("Error", message, fields)
}

func (e *MockLogger_Expecter) Flush() *mock.Call {
	return e.mock.On("Flush")
}

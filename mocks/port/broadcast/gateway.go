// Package broadcast provides test doubles for the broadcast ports.
package broadcast

import (
	"github.com/stretchr/testify/mock"
)

// MockGateway is a testify mock for broadcast.Gateway
type MockGateway struct {
	mock.Mock
}

// NewMockGateway creates a MockGateway that asserts its expectations on cleanup
func NewMockGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockGateway_Expecter provides a typed expectation builder
type MockGateway_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the expectation builder
func (m *MockGateway) EXPECT() *MockGateway_Expecter {
	return &MockGateway_Expecter{mock: &m.Mock}
}

func (m *MockGateway) Join(subscriberID string) {
	m.Called(subscriberID)
}

func (m *MockGateway) Leave(subscriberID string) {
	m.Called(subscriberID)
}

func (m *MockGateway) Publish(event string, payload any) {
	m.Called(event, payload)
}

func (e *MockGateway_Expecter) Join(subscriberID interface{}) *mock.Call {
	return e.mock.On("Join", subscriberID)
}

func (e *MockGateway_Expecter) Leave(subscriberID interface{}) *mock.Call {
	return e.mock.On("Leave", subscriberID)
}

func (e *MockGateway_Expecter) Publish(event, payload interface{}) *mock.Call {
	return e.mock.On("Publish", event, payload)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// MockHealthRegistry is a mock implementation of ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

var _ ports.HealthRegistry = (*MockHealthRegistry)(nil)

// NewMockHealthRegistry creates a mock whose expectations are asserted when
// the test ends.
func NewMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockHealthRegistry) Register(checkers ...ports.HealthChecker) error {
	args := m.Called(checkers)
	return args.Error(0)
}

func (m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	args := m.Called(ctx)
	return result[ports.HealthResult](args, 0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// MockOrderService is a mock implementation of ports.OrderService.
type MockOrderService struct {
	mock.Mock
}

var _ ports.OrderService = (*MockOrderService)(nil)

// NewMockOrderService creates a mock whose expectations are asserted when
// the test ends.
func NewMockOrderService(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockOrderService {
	m := &MockOrderService{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	return result[domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id domain.ID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	return result[domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, update domain.OrderUpdate) (*domain.Order, error) {
	args := m.Called(ctx, update)
	return result[domain.Order](args, 0), args.Error(1)
}

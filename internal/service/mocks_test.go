package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

type MockOrderHistory struct {
	mock.Mock
}

func (m *MockOrderHistory) ListOrders(ctx context.Context, customerEmail string) ([]domain.OrderCandidate, error) {
	args := m.Called(ctx, customerEmail)
	orders, _ := args.Get(0).([]domain.OrderCandidate)
	return orders, args.Error(1)
}

type MockFulfillments struct {
	mock.Mock
}

func (m *MockFulfillments) GetOrderFulfillment(ctx context.Context, orderNumber int64) (*domain.OrderFulfillment, error) {
	args := m.Called(ctx, orderNumber)
	of, _ := args.Get(0).(*domain.OrderFulfillment)
	return of, args.Error(1)
}

type MockResolutionRepository struct {
	mock.Mock
}

func (m *MockResolutionRepository) Create(ctx context.Context, resolution *domain.Resolution) error {
	return m.Called(ctx, resolution).Error(0)
}

func (m *MockResolutionRepository) GetLatestByTicket(ctx context.Context, ticketID string) (*domain.Resolution, error) {
	args := m.Called(ctx, ticketID)
	resolution, _ := args.Get(0).(*domain.Resolution)
	return resolution, args.Error(1)
}

// memoryDedup claims each key once.
type memoryDedup struct {
	seen map[string]bool
	err  error
}

func newMemoryDedup() *memoryDedup {
	return &memoryDedup{seen: map[string]bool{}}
}

func (d *memoryDedup) ClaimDelivery(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

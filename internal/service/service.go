package service

import (
	"context"

	"freightdesk/internal/dto"
	"freightdesk/internal/models"
	"freightdesk/internal/repository"
	"freightdesk/internal/repository/cache"
)

type Orders interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (uint, error)
	GetOrderByID(ctx context.Context, id uint) (dto.OrderDetail, error)
	ListOrders(ctx context.Context, q ListQuery) (dto.OrderPage, error)
	UpdateStops(ctx context.Context, orderID uint, stops []StopInput) error
	UpdateOrderRate(ctx context.Context, orderID uint, rate float64) error
	GetOrderCounts(ctx context.Context) (dto.OrderCounts, error)
}

type Customers interface {
	SearchCustomers(ctx context.Context, query string) ([]models.Customer, error)
	GetCustomerByID(ctx context.Context, id uint) (dto.CustomerDetail, error)
}

// EventPublisher emits order lifecycle events after successful
// commits. Publishing is best-effort: failures are logged and
// discarded, never surfaced to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}

type Service struct {
	orders    repository.OrderPostgres
	customers repository.CustomerPostgres
	cache     *cache.OrderCache
	events    EventPublisher
}

// NewService wires the lifecycle manager. events may be nil when
// publishing is disabled.
func NewService(repo *repository.Repository, cch *cache.OrderCache, events EventPublisher) *Service {
	return &Service{
		orders:    repo.OrderPostgres,
		customers: repo.CustomerPostgres,
		cache:     cch,
		events:    events,
	}
}

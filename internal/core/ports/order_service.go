package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// CreateOrderInput carries the data an admin supplies for a new order.
// A zero Quantity means 1.
type CreateOrderInput struct {
	UserID       int64
	CustomerName string
	PhoneNumber  string
	ServiceID    int64
	Quantity     decimal.Decimal
	Notes        string
}

// OrderService defines the order lifecycle use cases. Every call names the
// authenticated actor explicitly.
type OrderService interface {
	CreateOrder(ctx context.Context, actor domain.Actor, input CreateOrderInput) (*domain.OrderView, error)
	ListOrders(ctx context.Context, actor domain.Actor, status string) ([]domain.OrderView, error)
	GetOrder(ctx context.Context, actor domain.Actor, id int64) (*domain.OrderView, error)
	UpdateOrder(ctx context.Context, actor domain.Actor, id int64, patch domain.OrderPatch) error
	DeleteOrder(ctx context.Context, actor domain.Actor, id int64) error
	OrderHistory(ctx context.Context, actor domain.Actor, id int64) ([]domain.OrderEvent, error)
	ListActiveServices(ctx context.Context) ([]domain.Service, error)
	ListCustomers(ctx context.Context, actor domain.Actor) ([]domain.Customer, error)
	DashboardStats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error)
}

package ports

import (
	"context"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Create stores the order and assigns its ID.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// List returns matching orders sorted by entry date descending, ID
	// descending on ties.
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	// Apply loads the order, lets fn change it and stores the result as one
	// step. Nothing is written when fn fails. A write that lost a race with
	// another status change returns domain.ErrOrderChanged.
	Apply(ctx context.Context, id int64, fn func(*domain.Order) error) (*domain.Order, error)
	// Delete removes the order; domain.ErrOrderNotFound if nothing matched.
	Delete(ctx context.Context, id int64) error
	// CountByUser returns the number of orders owned by each user.
	CountByUser(ctx context.Context) (map[int64]int64, error)
}

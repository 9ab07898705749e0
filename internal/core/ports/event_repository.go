package ports

import (
	"context"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// EventRepository persists the status timeline of orders.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.OrderEvent) error
	// ListByOrder returns the timeline of one order, oldest first.
	ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderEvent, error)
	// DeleteByOrder drops the timeline of a removed order.
	DeleteByOrder(ctx context.Context, orderID int64) error
}

// EventPublisher hands a status change off for asynchronous recording.
type EventPublisher interface {
	Enqueue(event domain.OrderEvent)
}

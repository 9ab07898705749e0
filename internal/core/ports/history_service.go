package ports

import (
	"context"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// HistoryService persists status timeline entries handed over by the
// background dispatcher.
type HistoryService interface {
	Record(ctx context.Context, event domain.OrderEvent) error
}

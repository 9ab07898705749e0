package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

type historyService struct {
	orders ports.OrderRepository
	events ports.EventRepository
	log    zerolog.Logger
}

// NewHistoryService returns a HistoryService implementation.
func NewHistoryService(orders ports.OrderRepository, events ports.EventRepository, log zerolog.Logger) ports.HistoryService {
	return &historyService{orders: orders, events: events, log: log}
}

// Record stores one timeline entry. Entries for orders deleted before the
// write landed are dropped.
func (s *historyService) Record(ctx context.Context, event domain.OrderEvent) error {
	if event.OrderID <= 0 || event.Status == "" {
		return fmt.Errorf("record history: incomplete event for order %d", event.OrderID)
	}

	if _, err := s.orders.FindByID(ctx, event.OrderID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.log.Debug().Int64("order_id", event.OrderID).Msg("order gone, history entry skipped")
			return nil
		}
		return fmt.Errorf("record history: %w", err)
	}

	if err := s.events.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record history: insert: %w", err)
	}

	s.log.Debug().
		Int64("order_id", event.OrderID).
		Str("status", string(event.Status)).
		Str("actor", event.Actor).
		Msg("status recorded")
	return nil
}

package file

import (
	"context"
	"sort"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var _ ports.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) *EventRepository {
	return &EventRepository{s: s}
}

func (r *EventRepository) Insert(_ context.Context, e *domain.OrderEvent) error {
	return mutate(r.s, fileEvents, func(records []domain.OrderEvent) ([]domain.OrderEvent, error) {
		return append(records, *e), nil
	})
}

func (r *EventRepository) ListByOrder(_ context.Context, orderID int64) ([]domain.OrderEvent, error) {
	events := []domain.OrderEvent{}
	err := read(r.s, fileEvents, func(records []domain.OrderEvent) error {
		for _, e := range records {
			if e.OrderID == orderID {
				events = append(events, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp.Before(events[j].Timestamp) })
	return events, nil
}

func (r *EventRepository) DeleteByOrder(_ context.Context, orderID int64) error {
	return mutate(r.s, fileEvents, func(records []domain.OrderEvent) ([]domain.OrderEvent, error) {
		kept := records[:0]
		for _, e := range records {
			if e.OrderID != orderID {
				kept = append(kept, e)
			}
		}
		return kept, nil
	})
}

package postgres

import (
	"context"
	"fmt"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var _ ports.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	q Querier
}

func NewEventRepository(q Querier) *EventRepository {
	return &EventRepository{q: q}
}

func (r *EventRepository) Insert(ctx context.Context, e *domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.q.Exec(ctx,
		`INSERT INTO order_events (order_id, status, actor, created_at) VALUES ($1, $2, $3, $4)`,
		e.OrderID, string(e.Status), e.Actor, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.q.Query(ctx,
		`SELECT order_id, status, actor, created_at FROM order_events WHERE order_id = $1 ORDER BY created_at, id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []domain.OrderEvent{}
	for rows.Next() {
		var (
			e      domain.OrderEvent
			status string
		)
		if err := rows.Scan(&e.OrderID, &status, &e.Actor, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Status = domain.OrderStatus(status)
		e.Timestamp = e.Timestamp.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepository) DeleteByOrder(ctx context.Context, orderID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.q.Exec(ctx, `DELETE FROM order_events WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}

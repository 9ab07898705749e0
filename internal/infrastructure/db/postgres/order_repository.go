package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct {
	q Querier
}

func NewOrderRepository(q Querier) *OrderRepository {
	return &OrderRepository{q: q}
}

const orderColumns = `id, user_id, order_number, customer_name, phone_number, service_id,
	quantity, total_price, notes, status, entry_date, completed_date`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.CustomerName, &o.PhoneNumber, &o.ServiceID,
		&o.Quantity, &o.TotalPrice, &o.Notes, &status, &o.EntryDate, &o.CompletedDate,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.EntryDate = o.EntryDate.UTC()
	if o.CompletedDate != nil {
		completed := o.CompletedDate.UTC()
		o.CompletedDate = &completed
	}
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO orders (user_id, order_number, customer_name, phone_number, service_id,
			quantity, total_price, notes, status, entry_date, completed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		o.UserID, o.OrderNumber, o.CustomerName, o.PhoneNumber, o.ServiceID,
		o.Quantity, o.TotalPrice, o.Notes, string(o.Status), o.EntryDate, o.CompletedDate,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f domain.OrderFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY entry_date DESC, id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Apply reads the order, runs fn and writes it back only if the status is
// still the one fn saw. Two racing moves out of the same status cannot
// both land.
func (r *OrderRepository) Apply(ctx context.Context, id int64, fn func(*domain.Order) error) (*domain.Order, error) {
	o, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	seen := o.Status
	if err := fn(o); err != nil {
		return nil, err
	}
	o.ID = id

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE orders SET customer_name = $1, phone_number = $2, service_id = $3, quantity = $4,
			total_price = $5, notes = $6, status = $7, completed_date = $8
		WHERE id = $9 AND status = $10`
	tag, err := r.q.Exec(ctx, query,
		o.CustomerName, o.PhoneNumber, o.ServiceID, o.Quantity,
		o.TotalPrice, o.Notes, string(o.Status), o.CompletedDate, o.ID, string(seen),
	)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrOrderChanged
	}
	return o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) CountByUser(ctx context.Context) (map[int64]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.q.Query(ctx, `SELECT user_id, COUNT(*) FROM orders GROUP BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var userID, n int64
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		counts[userID] = n
	}
	return counts, rows.Err()
}

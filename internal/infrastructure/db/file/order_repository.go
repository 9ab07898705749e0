package file

import (
	"context"
	"sort"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct {
	s *Store
}

func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{s: s}
}

func orderID(o domain.Order) int64 { return o.ID }

func (r *OrderRepository) Create(_ context.Context, o *domain.Order) error {
	return mutate(r.s, fileOrders, func(records []domain.Order) ([]domain.Order, error) {
		id, err := claimID(r.s, fileOrders, nextID(records, orderID))
		if err != nil {
			return nil, err
		}
		o.ID = id
		return append(records, *o), nil
	})
}

func (r *OrderRepository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	var found *domain.Order
	err := read(r.s, fileOrders, func(records []domain.Order) error {
		for _, o := range records {
			if o.ID == id {
				found = &o
				return nil
			}
		}
		return domain.ErrOrderNotFound
	})
	return found, err
}

func (r *OrderRepository) List(_ context.Context, f domain.OrderFilter) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	err := read(r.s, fileOrders, func(records []domain.Order) error {
		for _, o := range records {
			if f.Matches(&o) {
				orders = append(orders, &o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].EntryDate.Equal(orders[j].EntryDate) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].EntryDate.After(orders[j].EntryDate)
	})
	return orders, nil
}

// Apply runs fn on a copy of the stored order while the store lock is held,
// so no other write can interleave.
func (r *OrderRepository) Apply(_ context.Context, id int64, fn func(*domain.Order) error) (*domain.Order, error) {
	var updated domain.Order
	err := mutate(r.s, fileOrders, func(records []domain.Order) ([]domain.Order, error) {
		for i := range records {
			if records[i].ID != id {
				continue
			}
			o := records[i]
			if err := fn(&o); err != nil {
				return nil, err
			}
			o.ID = id
			records[i] = o
			updated = o
			return records, nil
		}
		return nil, domain.ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *OrderRepository) Delete(_ context.Context, id int64) error {
	return mutate(r.s, fileOrders, func(records []domain.Order) ([]domain.Order, error) {
		for i := range records {
			if records[i].ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, domain.ErrOrderNotFound
	})
}

func (r *OrderRepository) CountByUser(_ context.Context) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	err := read(r.s, fileOrders, func(records []domain.Order) error {
		for _, o := range records {
			counts[o.UserID]++
		}
		return nil
	})
	return counts, err
}

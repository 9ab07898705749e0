package service

import (
	"context"
	"sort"
	"sync"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[int64]*domain.User
	nextID    int64
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context, role string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if role != "" && u.Role != role {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type stubCatalogRepo struct {
	services map[int64]domain.Service
	nextID   int64
}

func newStubCatalogRepo(services ...domain.Service) *stubCatalogRepo {
	r := &stubCatalogRepo{services: make(map[int64]domain.Service)}
	for _, s := range services {
		r.services[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *stubCatalogRepo) sorted(activeOnly bool) []domain.Service {
	var out []domain.Service
	for _, s := range r.services {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubCatalogRepo) ListActive(_ context.Context) ([]domain.Service, error) {
	return r.sorted(true), nil
}

func (r *stubCatalogRepo) List(_ context.Context) ([]domain.Service, error) {
	return r.sorted(false), nil
}

func (r *stubCatalogRepo) FindByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return &s, nil
}

func (r *stubCatalogRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.services)), nil
}

func (r *stubCatalogRepo) Create(_ context.Context, s *domain.Service) error {
	r.nextID++
	s.ID = r.nextID
	r.services[s.ID] = *s
	return nil
}

type stubOrderRepo struct {
	orders    map[int64]*domain.Order
	nextID    int64
	createErr error
	updates   int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	o.ID = r.nextID
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) List(_ context.Context, f domain.OrderFilter) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if !f.Matches(o) {
			continue
		}
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].EntryDate.After(out[j].EntryDate)
	})
	return out, nil
}

func (r *stubOrderRepo) Apply(_ context.Context, id int64, fn func(*domain.Order) error) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	if err := fn(&clone); err != nil {
		return nil, err
	}
	r.updates++
	r.orders[id] = &clone
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) CountByUser(_ context.Context) (map[int64]int64, error) {
	out := make(map[int64]int64)
	for _, o := range r.orders {
		out[o.UserID]++
	}
	return out, nil
}

type stubEventRepo struct {
	mu        sync.Mutex
	events    []domain.OrderEvent
	insertErr error
	deleted   []int64
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.OrderEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *stubEventRepo) ListByOrder(_ context.Context, orderID int64) ([]domain.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.OrderEvent{}
	for _, e := range r.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubEventRepo) DeleteByOrder(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, orderID)
	kept := r.events[:0]
	for _, e := range r.events {
		if e.OrderID != orderID {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

type stubPublisher struct {
	events []domain.OrderEvent
}

func (p *stubPublisher) Enqueue(e domain.OrderEvent) {
	p.events = append(p.events, e)
}

type stubOrderRecorder struct {
	created int
	changes []string
}

func (r *stubOrderRecorder) RecordOrderCreated() { r.created++ }

func (r *stubOrderRecorder) RecordStatusChange(from, to domain.OrderStatus) {
	r.changes = append(r.changes, string(from)+"->"+string(to))
}

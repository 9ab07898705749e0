package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

// OrderRecorder counts order lifecycle activity.
type OrderRecorder interface {
	RecordOrderCreated()
	RecordStatusChange(from, to domain.OrderStatus)
}

// OrderService implements the order lifecycle and the admin views built on it.
type OrderService struct {
	orders    ports.OrderRepository
	catalog   ports.CatalogRepository
	users     ports.UserRepository
	events    ports.EventRepository
	publisher ports.EventPublisher
	recorder  OrderRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	catalog ports.CatalogRepository,
	users ports.UserRepository,
	events ports.EventRepository,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		users:   users,
		events:  events,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithPublisher routes status history through an asynchronous publisher
// instead of writing it inline.
func (s *OrderService) WithPublisher(p ports.EventPublisher) *OrderService {
	s.publisher = p
	return s
}

// WithRecorder attaches order metrics.
func (s *OrderService) WithRecorder(r OrderRecorder) *OrderService {
	s.recorder = r
	return s
}

// CreateOrder records a new order on behalf of a customer. Admin only.
func (s *OrderService) CreateOrder(ctx context.Context, actor domain.Actor, in ports.CreateOrderInput) (*domain.OrderView, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminOnly
	}

	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.UserID <= 0 || in.CustomerName == "" || in.ServiceID <= 0 {
		return nil, domain.NewValidationError("user_id, customer_name, dan service_id harus diisi")
	}
	if in.Quantity.IsZero() {
		in.Quantity = decimal.NewFromInt(1)
	}
	if err := domain.CheckQuantity(in.Quantity); err != nil {
		return nil, err
	}

	svc, err := s.activeService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		UserID:       owner.ID,
		OrderNumber:  domain.NewOrderNumber(now),
		CustomerName: in.CustomerName,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Quantity:     in.Quantity,
		Notes:        in.Notes,
		Status:       domain.StatusQueued,
		EntryDate:    now,
	}
	order.Reprice(*svc)

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.record(ctx, order.ID, order.Status, actor, now)
	if s.recorder != nil {
		s.recorder.RecordOrderCreated()
	}
	s.logger.Info().
		Int64("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int64("user_id", order.UserID).
		Msg("order created")

	return &domain.OrderView{
		Order:        *order,
		ServiceName:  svc.Name,
		Unit:         svc.Unit,
		ServicePrice: svc.Price,
		UserFullName: owner.FullName,
	}, nil
}

// ListOrders returns the orders visible to the actor, newest first. An
// optional status narrows the listing.
func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor, status string) ([]domain.OrderView, error) {
	filter := domain.OrderFilter{}
	if !actor.IsAdmin() {
		filter.UserID = actor.ID
	}
	if status != "" {
		st, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	services, users, err := s.lookups(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, buildView(o, services, users))
	}
	return views, nil
}

// GetOrder returns one order. A customer asking for someone else's order is
// refused rather than told it does not exist.
func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, id int64) (*domain.OrderView, error) {
	order, err := s.visibleOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	services, users, err := s.lookups(ctx)
	if err != nil {
		return nil, err
	}
	view := buildView(order, services, users)
	return &view, nil
}

// UpdateOrder applies a partial update. Admin only. A blank customer name
// or status counts as not sent. The read-modify-write runs through
// OrderRepository.Apply so racing status moves cannot both pass the
// transition check.
func (s *OrderService) UpdateOrder(ctx context.Context, actor domain.Actor, id int64, patch domain.OrderPatch) error {
	if !actor.IsAdmin() {
		return domain.ErrAdminOnly
	}

	current, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	patch = patch.WithoutBlanks()
	if patch.IsEmpty() {
		return domain.ErrNothingToUpdate
	}

	if patch.Quantity != nil {
		if err := domain.CheckQuantity(*patch.Quantity); err != nil {
			return err
		}
	}
	var next domain.OrderStatus
	if patch.Status != nil {
		if next, err = domain.ParseOrderStatus(*patch.Status); err != nil {
			return err
		}
	}
	var svc *domain.Service
	if patch.ServiceID != nil || patch.Quantity != nil {
		serviceID := current.ServiceID
		if patch.ServiceID != nil {
			serviceID = *patch.ServiceID
		}
		if svc, err = s.catalog.FindByID(ctx, serviceID); err != nil {
			return err
		}
	}

	now := s.now()
	var from domain.OrderStatus
	order, err := s.orders.Apply(ctx, id, func(o *domain.Order) error {
		from = o.Status
		if patch.CustomerName != nil {
			o.CustomerName = strings.TrimSpace(*patch.CustomerName)
		}
		if patch.PhoneNumber != nil {
			o.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
		}
		if patch.Notes != nil {
			o.Notes = *patch.Notes
		}
		if svc != nil {
			// The price was looked up for the service read above.
			if patch.ServiceID == nil && o.ServiceID != svc.ID {
				return domain.ErrOrderChanged
			}
			if patch.Quantity != nil {
				o.Quantity = *patch.Quantity
			}
			o.Reprice(*svc)
		}
		if patch.Status != nil {
			return o.SetStatus(next, now)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if order.Status != from {
		s.record(ctx, order.ID, order.Status, actor, now)
		if s.recorder != nil {
			s.recorder.RecordStatusChange(from, order.Status)
		}
	}
	s.logger.Info().Int64("order_id", order.ID).Str("status", string(order.Status)).Msg("order updated")
	return nil
}

// DeleteOrder removes an order and its history. Admin only.
func (s *OrderService) DeleteOrder(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrAdminOnly
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		if err := s.events.DeleteByOrder(ctx, id); err != nil {
			s.logger.Warn().Err(err).Int64("order_id", id).Msg("failed to drop order history")
		}
	}
	s.logger.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}

// OrderHistory returns the status timeline of an order the actor may see.
func (s *OrderService) OrderHistory(ctx context.Context, actor domain.Actor, id int64) ([]domain.OrderEvent, error) {
	if _, err := s.visibleOrder(ctx, actor, id); err != nil {
		return nil, err
	}
	if s.events == nil {
		return []domain.OrderEvent{}, nil
	}
	return s.events.ListByOrder(ctx, id)
}

// ListActiveServices returns the public catalog.
func (s *OrderService) ListActiveServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalog.ListActive(ctx)
}

// ListCustomers returns every customer account with its order count. Admin only.
func (s *OrderService) ListCustomers(ctx context.Context, actor domain.Actor) ([]domain.Customer, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminOnly
	}

	users, err := s.users.List(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	counts, err := s.orders.CountByUser(ctx)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(users))
	for _, u := range users {
		customers = append(customers, domain.Customer{
			ID:          u.ID,
			FullName:    u.FullName,
			Username:    u.Username,
			CreatedAt:   u.CreatedAt,
			TotalOrders: counts[u.ID],
		})
	}
	return customers, nil
}

// DashboardStats summarises the order book. Admin only.
func (s *OrderService) DashboardStats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminOnly
	}

	orders, err := s.orders.List(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, err
	}
	customers, err := s.users.List(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		TotalOrders:    int64(len(orders)),
		TotalCustomers: int64(len(customers)),
		ByStatus:       make(map[domain.OrderStatus]int64, len(domain.Statuses())),
		Revenue:        decimal.Zero,
	}
	for _, st := range domain.Statuses() {
		stats.ByStatus[st] = 0
	}
	for _, o := range orders {
		stats.ByStatus[o.Status]++
		if o.Status == domain.StatusDone {
			stats.Revenue = stats.Revenue.Add(o.TotalPrice)
		}
	}
	return stats, nil
}

func (s *OrderService) visibleOrder(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanSee(order.UserID) {
		return nil, domain.ErrOrderForbidden
	}
	return order, nil
}

func (s *OrderService) activeService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}

// lookups loads every service and user keyed by ID so views can be joined
// in memory.
func (s *OrderService) lookups(ctx context.Context) (map[int64]domain.Service, map[int64]*domain.User, error) {
	services, err := s.catalog.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load services: %w", err)
	}
	users, err := s.users.List(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("load users: %w", err)
	}

	byService := make(map[int64]domain.Service, len(services))
	for _, svc := range services {
		byService[svc.ID] = svc
	}
	byUser := make(map[int64]*domain.User, len(users))
	for _, u := range users {
		byUser[u.ID] = u
	}
	return byService, byUser, nil
}

func buildView(o *domain.Order, services map[int64]domain.Service, users map[int64]*domain.User) domain.OrderView {
	view := domain.OrderView{Order: *o}
	if svc, ok := services[o.ServiceID]; ok {
		view.ServiceName = svc.Name
		view.Unit = svc.Unit
		view.ServicePrice = svc.Price
	}
	if u, ok := users[o.UserID]; ok {
		view.UserFullName = u.FullName
	}
	return view
}

// record appends a timeline entry. With a publisher the write happens in
// the background; otherwise inline, where a failure is logged and dropped.
func (s *OrderService) record(ctx context.Context, orderID int64, status domain.OrderStatus, actor domain.Actor, at time.Time) {
	event := domain.OrderEvent{OrderID: orderID, Status: status, Actor: actor.Username, Timestamp: at}
	if s.publisher != nil {
		s.publisher.Enqueue(event)
		return
	}
	if s.events == nil {
		return
	}
	if err := s.events.Insert(ctx, &event); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Int64("order_id", orderID).Msg("failed to record status history")
	}
}

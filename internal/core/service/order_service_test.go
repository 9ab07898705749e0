package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var (
	adminActor = domain.Actor{ID: 1, Username: "admin", Role: domain.RoleAdmin}
	janeActor  = domain.Actor{ID: 2, Username: "janedoe", Role: domain.RoleCustomer}
	bobActor   = domain.Actor{ID: 3, Username: "bobby", Role: domain.RoleCustomer}
)

type orderFixture struct {
	svc     *OrderService
	orders  *stubOrderRepo
	catalog *stubCatalogRepo
	users   *stubUserRepo
	events  *stubEventRepo
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	users := newStubUserRepo()
	for _, u := range []*domain.User{
		{FullName: "Administrator", Username: "admin", Role: domain.RoleAdmin},
		{FullName: "Jane Doe", Username: "janedoe", Role: domain.RoleCustomer},
		{FullName: "Bob Builder", Username: "bobby", Role: domain.RoleCustomer},
	} {
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	catalog := newStubCatalogRepo(
		domain.Service{ID: 1, Name: "Cuci Setrika", Unit: "kg", Price: decimal.NewFromInt(10000), IsActive: true},
		domain.Service{ID: 2, Name: "Bed Cover", Unit: "pcs", Price: decimal.NewFromInt(25000), IsActive: true},
		domain.Service{ID: 3, Name: "Karpet", Unit: "m2", Price: decimal.NewFromInt(15000), IsActive: false},
	)
	orders := newStubOrderRepo()
	events := &stubEventRepo{}

	return &orderFixture{
		svc:     NewOrderService(orders, catalog, users, events, zerolog.Nop()),
		orders:  orders,
		catalog: catalog,
		users:   users,
		events:  events,
	}
}

func (f *orderFixture) create(t *testing.T, userID, serviceID int64, qty int64) *domain.OrderView {
	t.Helper()
	view, err := f.svc.CreateOrder(context.Background(), adminActor, ports.CreateOrderInput{
		UserID:       userID,
		CustomerName: "Walk-in",
		ServiceID:    serviceID,
		Quantity:     decimal.NewFromInt(qty),
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	return view
}

func TestOrderService_CreateOrder_ComputesFields(t *testing.T) {
	f := newOrderFixture(t)
	rec := &stubOrderRecorder{}
	f.svc.WithRecorder(rec)

	view, err := f.svc.CreateOrder(context.Background(), adminActor, ports.CreateOrderInput{
		UserID:       janeActor.ID,
		CustomerName: "Jane Doe",
		PhoneNumber:  "08123456789",
		ServiceID:    1,
		Quantity:     decimal.NewFromInt(3),
		Notes:        "pisahkan baju putih",
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	if !view.TotalPrice.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("expected total 30000, got %s", view.TotalPrice)
	}
	if view.Status != domain.StatusQueued {
		t.Errorf("expected status Antrian, got %s", view.Status)
	}
	if view.ID == 0 || view.OrderNumber == "" {
		t.Errorf("expected id and order number, got %d %q", view.ID, view.OrderNumber)
	}
	if view.EntryDate.IsZero() || view.CompletedDate != nil {
		t.Errorf("unexpected dates: entry=%v completed=%v", view.EntryDate, view.CompletedDate)
	}
	if view.ServiceName != "Cuci Setrika" || view.UserFullName != "Jane Doe" {
		t.Errorf("expected resolved names, got %q / %q", view.ServiceName, view.UserFullName)
	}
	if len(f.events.events) != 1 || f.events.events[0].Status != domain.StatusQueued {
		t.Errorf("expected creation to be recorded in history, got %+v", f.events.events)
	}
	if rec.created != 1 {
		t.Errorf("expected created counter to be bumped")
	}
}

func TestOrderService_CreateOrder_DefaultQuantity(t *testing.T) {
	f := newOrderFixture(t)

	view, err := f.svc.CreateOrder(context.Background(), adminActor, ports.CreateOrderInput{
		UserID: janeActor.ID, CustomerName: "Jane", ServiceID: 2,
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if !view.Quantity.Equal(decimal.NewFromInt(1)) || !view.TotalPrice.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("expected qty 1 and total 25000, got %s / %s", view.Quantity, view.TotalPrice)
	}
}

func TestOrderService_CreateOrder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		actor domain.Actor
		input ports.CreateOrderInput
		want  error
	}{
		{"customer forbidden", janeActor, ports.CreateOrderInput{UserID: 2, CustomerName: "x", ServiceID: 1}, domain.ErrForbidden},
		{"missing fields", adminActor, ports.CreateOrderInput{UserID: 2, ServiceID: 1}, domain.ErrValidation},
		{"negative quantity", adminActor, ports.CreateOrderInput{UserID: 2, CustomerName: "x", ServiceID: 1, Quantity: decimal.NewFromInt(-1)}, domain.ErrValidation},
		{"three decimal places", adminActor, ports.CreateOrderInput{UserID: 2, CustomerName: "x", ServiceID: 1, Quantity: decimal.RequireFromString("0.125")}, domain.ErrValidation},
		{"quantity too large", adminActor, ports.CreateOrderInput{UserID: 2, CustomerName: "x", ServiceID: 1, Quantity: decimal.RequireFromString("99999999999")}, domain.ErrValidation},
		{"unknown service", adminActor, ports.CreateOrderInput{UserID: 2, CustomerName: "x", ServiceID: 99}, domain.ErrNotFound},
		{"inactive service", adminActor, ports.CreateOrderInput{UserID: 2, CustomerName: "x", ServiceID: 3}, domain.ErrNotFound},
		{"unknown user", adminActor, ports.CreateOrderInput{UserID: 42, CustomerName: "x", ServiceID: 1}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			_, err := f.svc.CreateOrder(context.Background(), tt.actor, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(f.orders.orders) != 0 {
				t.Fatalf("expected nothing persisted")
			}
		})
	}
}

func TestOrderService_CreateOrder_RepoError(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.createErr = errors.New("db down")

	_, err := f.svc.CreateOrder(context.Background(), adminActor, ports.CreateOrderInput{UserID: 2, CustomerName: "x", ServiceID: 1})
	if err == nil || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected raw repository error, got %v", err)
	}
}

func TestOrderService_ListOrders_ScopedByRole(t *testing.T) {
	f := newOrderFixture(t)
	f.create(t, janeActor.ID, 1, 1)
	f.create(t, bobActor.ID, 1, 2)
	f.create(t, janeActor.ID, 2, 1)

	all, err := f.svc.ListOrders(context.Background(), adminActor, "")
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin expected 3 orders, got %d", len(all))
	}

	own, err := f.svc.ListOrders(context.Background(), janeActor, "")
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("customer expected 2 orders, got %d", len(own))
	}
	for _, o := range own {
		if o.UserID != janeActor.ID {
			t.Errorf("customer saw foreign order %d owned by %d", o.ID, o.UserID)
		}
		if o.UserFullName != "Jane Doe" || o.ServiceName == "" || o.Unit == "" {
			t.Errorf("expected resolved view fields, got %+v", o)
		}
	}
	if own[0].ID < own[1].ID {
		t.Errorf("expected newest first, got ids %d, %d", own[0].ID, own[1].ID)
	}
}

func TestOrderService_ListOrders_StatusFilter(t *testing.T) {
	f := newOrderFixture(t)
	first := f.create(t, janeActor.ID, 1, 1)
	f.create(t, janeActor.ID, 1, 1)

	status := string(domain.StatusWashing)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, first.ID, domain.OrderPatch{Status: &status}); err != nil {
		t.Fatalf("UpdateOrder returned error: %v", err)
	}

	got, err := f.svc.ListOrders(context.Background(), adminActor, status)
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("expected only order %d, got %+v", first.ID, got)
	}

	if _, err := f.svc.ListOrders(context.Background(), adminActor, "Hilang"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	f := newOrderFixture(t)
	created := f.create(t, janeActor.ID, 1, 2)

	view, err := f.svc.GetOrder(context.Background(), janeActor, created.ID)
	if err != nil {
		t.Fatalf("owner GetOrder returned error: %v", err)
	}
	if view.OrderNumber != created.OrderNumber || !view.TotalPrice.Equal(created.TotalPrice) {
		t.Errorf("round trip mismatch: %+v vs %+v", view.Order, created.Order)
	}
	if view.ServiceName != "Cuci Setrika" || view.Unit != "kg" || view.UserFullName != "Jane Doe" {
		t.Errorf("expected resolved names, got %+v", view)
	}
	if !view.ServicePrice.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected service price 10000, got %s", view.ServicePrice)
	}

	if _, err := f.svc.GetOrder(context.Background(), bobActor, created.ID); err != domain.ErrOrderForbidden {
		t.Errorf("expected ErrOrderForbidden for foreign customer, got %v", err)
	}
	if _, err := f.svc.GetOrder(context.Background(), adminActor, created.ID); err != nil {
		t.Errorf("admin GetOrder returned error: %v", err)
	}
	if _, err := f.svc.GetOrder(context.Background(), adminActor, 999); err != domain.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_UpdateOrder_Reprices(t *testing.T) {
	f := newOrderFixture(t)
	created := f.create(t, janeActor.ID, 1, 2)

	qty := decimal.NewFromInt(5)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Quantity: &qty}); err != nil {
		t.Fatalf("UpdateOrder returned error: %v", err)
	}
	if got := f.orders.orders[created.ID].TotalPrice; !got.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected 50000 after quantity change, got %s", got)
	}

	svcID := int64(2)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{ServiceID: &svcID}); err != nil {
		t.Fatalf("UpdateOrder returned error: %v", err)
	}
	stored := f.orders.orders[created.ID]
	if stored.ServiceID != 2 || !stored.TotalPrice.Equal(decimal.NewFromInt(125000)) {
		t.Fatalf("expected service 2 and 125000, got %d / %s", stored.ServiceID, stored.TotalPrice)
	}

	unknown := int64(99)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{ServiceID: &unknown}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown service, got %v", err)
	}
}

func TestOrderService_UpdateOrder_OverwritesText(t *testing.T) {
	f := newOrderFixture(t)
	created := f.create(t, janeActor.ID, 1, 1)

	name, phone, notes := "Jane D.", "0811", ""
	err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{
		CustomerName: &name, PhoneNumber: &phone, Notes: &notes,
	})
	if err != nil {
		t.Fatalf("UpdateOrder returned error: %v", err)
	}
	stored := f.orders.orders[created.ID]
	if stored.CustomerName != "Jane D." || stored.PhoneNumber != "0811" || stored.Notes != "" {
		t.Fatalf("unexpected stored order: %+v", stored)
	}
	if !stored.TotalPrice.Equal(created.TotalPrice) {
		t.Fatalf("price changed without service/quantity change")
	}
}

func TestOrderService_UpdateOrder_StatusLifecycle(t *testing.T) {
	f := newOrderFixture(t)
	rec := &stubOrderRecorder{}
	f.svc.WithRecorder(rec)
	created := f.create(t, janeActor.ID, 1, 1)

	for _, st := range []domain.OrderStatus{domain.StatusWashing, domain.StatusReady} {
		s := string(st)
		if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Status: &s}); err != nil {
			t.Fatalf("move to %s: %v", st, err)
		}
		if f.orders.orders[created.ID].CompletedDate != nil {
			t.Fatalf("completed_date set by %s", st)
		}
	}

	back := string(domain.StatusWashing)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Status: &back}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected backward move to be rejected, got %v", err)
	}

	done := string(domain.StatusDone)
	before := time.Now().UTC().Add(-time.Second)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Status: &done}); err != nil {
		t.Fatalf("move to Selesai: %v", err)
	}
	stored := f.orders.orders[created.ID]
	if stored.CompletedDate == nil || stored.CompletedDate.Before(before) {
		t.Fatalf("expected completed_date stamped, got %v", stored.CompletedDate)
	}

	cancel := string(domain.StatusCancelled)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Status: &cancel}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected terminal state to be final, got %v", err)
	}

	history, err := f.svc.OrderHistory(context.Background(), janeActor, created.ID)
	if err != nil {
		t.Fatalf("OrderHistory returned error: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(history))
	}
	if history[3].Status != domain.StatusDone || history[3].Actor != "admin" {
		t.Fatalf("unexpected last entry: %+v", history[3])
	}
	if len(rec.changes) != 3 {
		t.Fatalf("expected 3 recorded transitions, got %v", rec.changes)
	}
}

func TestOrderService_UpdateOrder_Errors(t *testing.T) {
	f := newOrderFixture(t)
	created := f.create(t, janeActor.ID, 1, 1)
	name := "x"

	if err := f.svc.UpdateOrder(context.Background(), janeActor, created.ID, domain.OrderPatch{CustomerName: &name}); err != domain.ErrAdminOnly {
		t.Errorf("expected ErrAdminOnly, got %v", err)
	}
	if err := f.svc.UpdateOrder(context.Background(), adminActor, 999, domain.OrderPatch{CustomerName: &name}); err != domain.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{}); err != domain.ErrNothingToUpdate {
		t.Errorf("expected ErrNothingToUpdate, got %v", err)
	}
	bogus := "Hilang"
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Status: &bogus}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	zero := decimal.Zero
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Quantity: &zero}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for zero quantity, got %v", err)
	}
	fine := decimal.RequireFromString("0.125")
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Quantity: &fine}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for 0.125, got %v", err)
	}
	huge := decimal.NewFromInt(1_000_000)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Quantity: &huge}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for oversized quantity, got %v", err)
	}
	if f.orders.updates != 0 {
		t.Errorf("expected no writes, got %d", f.orders.updates)
	}
}

func TestOrderService_UpdateOrder_BlankFieldsAreSkipped(t *testing.T) {
	f := newOrderFixture(t)
	created := f.create(t, janeActor.ID, 1, 1)

	blank, phone := "", "0812"
	err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{
		CustomerName: &blank, Status: &blank, PhoneNumber: &phone,
	})
	if err != nil {
		t.Fatalf("UpdateOrder returned error: %v", err)
	}
	stored := f.orders.orders[created.ID]
	if stored.CustomerName != "Walk-in" || stored.Status != domain.StatusQueued || stored.PhoneNumber != "0812" {
		t.Fatalf("unexpected stored order: %+v", stored)
	}

	if err := f.svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Status: &blank}); err != domain.ErrNothingToUpdate {
		t.Fatalf("expected ErrNothingToUpdate when only blanks are sent, got %v", err)
	}
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := newOrderFixture(t)
	created := f.create(t, janeActor.ID, 1, 1)

	if err := f.svc.DeleteOrder(context.Background(), janeActor, created.ID); err != domain.ErrAdminOnly {
		t.Fatalf("expected ErrAdminOnly, got %v", err)
	}
	if err := f.svc.DeleteOrder(context.Background(), adminActor, created.ID); err != nil {
		t.Fatalf("DeleteOrder returned error: %v", err)
	}
	if _, err := f.svc.GetOrder(context.Background(), adminActor, created.ID); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}
	if err := f.svc.DeleteOrder(context.Background(), adminActor, created.ID); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound on second delete, got %v", err)
	}
	if len(f.events.deleted) != 1 || f.events.deleted[0] != created.ID {
		t.Fatalf("expected history dropped for order %d, got %v", created.ID, f.events.deleted)
	}
}

func TestOrderService_WithPublisher_DefersHistory(t *testing.T) {
	f := newOrderFixture(t)
	pub := &stubPublisher{}
	f.svc.WithPublisher(pub)

	f.create(t, janeActor.ID, 1, 1)

	if len(pub.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.events))
	}
	if len(f.events.events) != 0 {
		t.Fatalf("expected no inline history write")
	}
}

func TestOrderService_ListActiveServices(t *testing.T) {
	f := newOrderFixture(t)

	services, err := f.svc.ListActiveServices(context.Background())
	if err != nil {
		t.Fatalf("ListActiveServices returned error: %v", err)
	}
	if len(services) != 2 || services[0].ID != 1 || services[1].ID != 2 {
		t.Fatalf("expected active services 1 and 2 in order, got %+v", services)
	}
}

func TestOrderService_ListCustomers(t *testing.T) {
	f := newOrderFixture(t)
	f.create(t, janeActor.ID, 1, 1)
	f.create(t, janeActor.ID, 1, 1)
	f.create(t, bobActor.ID, 1, 1)

	if _, err := f.svc.ListCustomers(context.Background(), janeActor); err != domain.ErrAdminOnly {
		t.Fatalf("expected ErrAdminOnly, got %v", err)
	}

	customers, err := f.svc.ListCustomers(context.Background(), adminActor)
	if err != nil {
		t.Fatalf("ListCustomers returned error: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	counts := map[string]int64{}
	for _, c := range customers {
		counts[c.Username] = c.TotalOrders
	}
	if counts["janedoe"] != 2 || counts["bobby"] != 1 {
		t.Fatalf("unexpected order counts: %v", counts)
	}
}

func TestOrderService_DashboardStats(t *testing.T) {
	f := newOrderFixture(t)
	a := f.create(t, janeActor.ID, 1, 3)
	f.create(t, bobActor.ID, 2, 1)

	done := string(domain.StatusDone)
	if err := f.svc.UpdateOrder(context.Background(), adminActor, a.ID, domain.OrderPatch{Status: &done}); err != nil {
		t.Fatalf("UpdateOrder returned error: %v", err)
	}

	if _, err := f.svc.DashboardStats(context.Background(), bobActor); err != domain.ErrAdminOnly {
		t.Fatalf("expected ErrAdminOnly, got %v", err)
	}

	stats, err := f.svc.DashboardStats(context.Background(), adminActor)
	if err != nil {
		t.Fatalf("DashboardStats returned error: %v", err)
	}
	if stats.TotalOrders != 2 || stats.TotalCustomers != 2 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.ByStatus[domain.StatusDone] != 1 || stats.ByStatus[domain.StatusQueued] != 1 || stats.ByStatus[domain.StatusCancelled] != 0 {
		t.Fatalf("unexpected per-status counts: %v", stats.ByStatus)
	}
	if !stats.Revenue.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("expected revenue 30000, got %s", stats.Revenue)
	}
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
	"github.com/mylaundry/order-system/internal/infrastructure/db/file"
)

// Two admins finishing and cancelling the same queued order at once: the
// transition check must see the winner's status, so one request fails.
func TestOrderService_UpdateOrder_ConcurrentStatusMoves(t *testing.T) {
	store, err := file.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	orders := file.NewOrderRepository(store)
	events := file.NewEventRepository(store)
	users := newStubUserRepo()
	for _, u := range []*domain.User{
		{FullName: "Administrator", Username: "admin", Role: domain.RoleAdmin},
		{FullName: "Jane Doe", Username: "janedoe", Role: domain.RoleCustomer},
	} {
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	catalog := newStubCatalogRepo(
		domain.Service{ID: 1, Name: "Cuci Setrika", Unit: "kg", Price: decimal.NewFromInt(10000), IsActive: true},
	)
	svc := NewOrderService(orders, catalog, users, events, zerolog.Nop())

	for round := 0; round < 20; round++ {
		created, err := svc.CreateOrder(context.Background(), adminActor, ports.CreateOrderInput{
			UserID: janeActor.ID, CustomerName: "Jane", ServiceID: 1,
		})
		if err != nil {
			t.Fatalf("CreateOrder returned error: %v", err)
		}

		var (
			wg   sync.WaitGroup
			errs = make([]error, 2)
		)
		for i, st := range []domain.OrderStatus{domain.StatusDone, domain.StatusCancelled} {
			wg.Add(1)
			go func(i int, status string) {
				defer wg.Done()
				errs[i] = svc.UpdateOrder(context.Background(), adminActor, created.ID, domain.OrderPatch{Status: &status})
			}(i, string(st))
		}
		wg.Wait()

		var wins int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case !errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrConflict):
				t.Fatalf("round %d: unexpected error %v", round, err)
			}
		}
		if wins != 1 {
			t.Fatalf("round %d: expected exactly one winner, got %d (%v)", round, wins, errs)
		}

		stored, err := orders.FindByID(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if (stored.Status == domain.StatusDone) != (stored.CompletedDate != nil) {
			t.Fatalf("round %d: status %s with completed_date %v", round, stored.Status, stored.CompletedDate)
		}

		history, err := svc.OrderHistory(context.Background(), adminActor, created.ID)
		if err != nil {
			t.Fatalf("OrderHistory returned error: %v", err)
		}
		if len(history) != 2 || history[1].Status != stored.Status {
			t.Fatalf("round %d: history %+v does not end in %s", round, history, stored.Status)
		}
	}
}

package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of a laundry order.
type OrderStatus string

const (
	StatusQueued    OrderStatus = "Antrian"
	StatusWashing   OrderStatus = "Proses Cuci"
	StatusDrying    OrderStatus = "Proses Kering"
	StatusIroning   OrderStatus = "Setrika"
	StatusReady     OrderStatus = "Siap Diambil"
	StatusDone      OrderStatus = "Selesai"
	StatusCancelled OrderStatus = "Dibatalkan"
)

// progression is the happy path in order. Cancellation sits outside it.
var progression = []OrderStatus{
	StatusQueued,
	StatusWashing,
	StatusDrying,
	StatusIroning,
	StatusReady,
	StatusDone,
}

// Statuses lists every known status, happy path first.
func Statuses() []OrderStatus {
	out := make([]OrderStatus, 0, len(progression)+1)
	out = append(out, progression...)
	return append(out, StatusCancelled)
}

// ParseOrderStatus resolves a raw status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", NewValidationError("Status %q tidak dikenal.", s)
}

func (s OrderStatus) step() int {
	for i, st := range progression {
		if st == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransitionTo reports whether a transition from s to next is valid.
// Forward moves may skip steps; Dibatalkan is reachable from any
// non-terminal state; terminal states are final.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, to := s.step(), next.step()
	return from >= 0 && to > from
}

// Order is a single laundry request for one customer and one service.
type Order struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	PhoneNumber   string          `json:"phone_number"`
	ServiceID     int64           `json:"service_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Notes         string          `json:"notes"`
	Status        OrderStatus     `json:"status"`
	EntryDate     time.Time       `json:"entry_date"`
	CompletedDate *time.Time      `json:"completed_date"`
}

// SetStatus moves the order to next at the given time, stamping the
// completion date when the order reaches Selesai. Setting the current status
// again is a no-op.
func (o *Order) SetStatus(next OrderStatus, at time.Time) error {
	if next == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(next) {
		return NewValidationError("Status tidak dapat diubah dari %s ke %s.", o.Status, next)
	}
	o.Status = next
	if next == StatusDone {
		completed := at
		o.CompletedDate = &completed
	}
	return nil
}

// Reprice recomputes the total from the service price and current quantity.
func (o *Order) Reprice(svc Service) {
	o.ServiceID = svc.ID
	o.TotalPrice = svc.PriceFor(o.Quantity)
}

// MaxQuantity caps a single order line. Quantities carry at most two
// decimal places.
var MaxQuantity = decimal.NewFromInt(10000)

// CheckQuantity rejects quantities that are not positive, are finer than
// hundredths or exceed MaxQuantity.
func CheckQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return NewValidationError("Jumlah harus lebih dari 0")
	}
	if !q.Equal(q.Truncate(2)) {
		return NewValidationError("Jumlah maksimal 2 angka di belakang koma")
	}
	if q.GreaterThan(MaxQuantity) {
		return NewValidationError("Jumlah maksimal %s", MaxQuantity)
	}
	return nil
}

// OrderView is an order with its references resolved for display.
type OrderView struct {
	Order
	ServiceName  string
	Unit         string
	ServicePrice decimal.Decimal
	UserFullName string
}

// OrderPatch carries a partial order update. Nil fields are left untouched.
type OrderPatch struct {
	CustomerName *string
	PhoneNumber  *string
	ServiceID    *int64
	Quantity     *decimal.Decimal
	Status       *string
	Notes        *string
}

// IsEmpty reports whether the patch names no field at all.
func (p OrderPatch) IsEmpty() bool {
	return p.CustomerName == nil &&
		p.PhoneNumber == nil &&
		p.ServiceID == nil &&
		p.Quantity == nil &&
		p.Status == nil &&
		p.Notes == nil
}

// WithoutBlanks drops a blank customer name or status so they read as
// "not sent" rather than as a request to clear the field.
func (p OrderPatch) WithoutBlanks() OrderPatch {
	if p.CustomerName != nil && strings.TrimSpace(*p.CustomerName) == "" {
		p.CustomerName = nil
	}
	if p.Status != nil && strings.TrimSpace(*p.Status) == "" {
		p.Status = nil
	}
	return p
}

// OrderFilter narrows an order listing. A zero UserID means every owner.
type OrderFilter struct {
	UserID int64
	Status OrderStatus
}

// Matches reports whether o satisfies the filter.
func (f OrderFilter) Matches(o *Order) bool {
	if f.UserID != 0 && o.UserID != f.UserID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}

const orderNumberPrefix = "ML"

// FormatOrderNumber renders ML + YYMMDD + a 4-digit suffix.
func FormatOrderNumber(at time.Time, suffix int) string {
	return fmt.Sprintf("%s%s%04d", orderNumberPrefix, at.Format("060102"), suffix%10000)
}

// NewOrderNumber returns a display label for an order entered at the given
// time. The random suffix makes collisions within a day unlikely, not
// impossible; the numeric id stays the key.
func NewOrderNumber(at time.Time) string {
	return FormatOrderNumber(at, rand.IntN(10000))
}

// OrderEvent is one entry of an order's status timeline.
type OrderEvent struct {
	OrderID   int64       `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
}

// DashboardStats summarises the order book for the admin dashboard.
type DashboardStats struct {
	TotalOrders    int64
	TotalCustomers int64
	ByStatus       map[OrderStatus]int64
	Revenue        decimal.Decimal
}

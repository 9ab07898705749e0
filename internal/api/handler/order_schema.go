package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// ── Requests ──────────────────────────────────────────────────────────────────

type createOrderRequest struct {
	UserID       int64           `json:"user_id" validate:"gte=0"`
	CustomerName string          `json:"customer_name" validate:"max=100"`
	PhoneNumber  string          `json:"phone_number" validate:"max=20"`
	ServiceID    int64           `json:"service_id" validate:"gte=0"`
	Quantity     decimal.Decimal `json:"quantity" validate:"lte=10000"`
	Notes        string          `json:"notes" validate:"max=500"`
}

// updateOrderRequest mirrors domain.OrderPatch: absent fields stay nil.
type updateOrderRequest struct {
	CustomerName *string          `json:"customer_name" validate:"omitempty,max=100"`
	PhoneNumber  *string          `json:"phone_number" validate:"omitempty,max=20"`
	ServiceID    *int64           `json:"service_id" validate:"omitempty,gt=0"`
	Quantity     *decimal.Decimal `json:"quantity" validate:"omitempty,lte=10000"`
	Status       *string          `json:"status"`
	Notes        *string          `json:"notes" validate:"omitempty,max=500"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// orderResponse is an order joined with its service and owner names.
// Price is only present on the single-order view.
type orderResponse struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	OrderNumber   string           `json:"order_number"`
	CustomerName  string           `json:"customer_name"`
	PhoneNumber   string           `json:"phone_number"`
	ServiceID     int64            `json:"service_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	TotalPrice    decimal.Decimal  `json:"total_price"`
	Notes         string           `json:"notes"`
	Status        string           `json:"status"`
	EntryDate     time.Time        `json:"entry_date"`
	CompletedDate *time.Time       `json:"completed_date"`
	ServiceName   string           `json:"service_name"`
	Unit          string           `json:"unit"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	UserFullName  string           `json:"user_full_name"`
}

type createOrderResponse struct {
	envelope
	OrderID     int64         `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	Order       orderResponse `json:"order"`
}

type listOrdersResponse struct {
	envelope
	Orders []orderResponse `json:"orders"`
}

type getOrderResponse struct {
	envelope
	Order orderResponse `json:"order"`
}

type historyEntry struct {
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

type historyResponse struct {
	envelope
	History []historyEntry `json:"history"`
}

type servicesResponse struct {
	envelope
	Services []domain.Service `json:"services"`
}

type customersResponse struct {
	envelope
	Customers []domain.Customer `json:"customers"`
}

type statsPayload struct {
	TotalOrders    int64            `json:"total_orders"`
	TotalCustomers int64            `json:"total_customers"`
	ByStatus       map[string]int64 `json:"by_status"`
	Revenue        decimal.Decimal  `json:"revenue"`
}

type statsResponse struct {
	envelope
	Stats statsPayload `json:"stats"`
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

// OrderHandler handles HTTP requests for laundry orders and the service catalog.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrder registers a new order for a customer.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.CreateOrder(c.Request().Context(), actor, toCreateOrderInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createOrderResponse{
		envelope:    ok("Pesanan berhasil dibuat."),
		OrderID:     view.ID,
		OrderNumber: view.OrderNumber,
		Order:       toOrderResponse(*view),
	})
}

// ListOrders returns every order for admins and the caller's own orders otherwise.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  listOrdersResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListOrders(c.Request().Context(), actor, c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listOrdersResponse{
		envelope: ok(""),
		Orders:   toOrderResponses(views),
	})
}

// GetOrder returns a single order with its service price.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  getOrderResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetOrder(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getOrderResponse{
		envelope: ok(""),
		Order:    toOrderDetailResponse(*view),
	})
}

// UpdateOrder applies a partial update.
//
// @Summary      Update an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Order ID"
// @Param        body  body      updateOrderRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateOrder(c.Request().Context(), actor, id, toOrderPatch(req)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("Pesanan berhasil diupdate."))
}

// DeleteOrder removes an order.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  envelope
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteOrder(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("Pesanan berhasil dihapus."))
}

// OrderHistory returns the status timeline of an order, oldest first.
//
// @Summary      Order status history
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  historyResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /orders/{id}/history [get]
func (h *OrderHandler) OrderHistory(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	events, err := h.service.OrderHistory(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, historyResponse{
		envelope: ok(""),
		History:  toHistory(events),
	})
}

// ListServices returns the active service catalog. No authentication.
//
// @Summary      Active services
// @Tags         services
// @Produce      json
// @Success      200  {object}  servicesResponse
// @Router       /orders/public/services [get]
func (h *OrderHandler) ListServices(c echo.Context) error {
	services, err := h.service.ListActiveServices(c.Request().Context())
	if err != nil {
		return err
	}
	if services == nil {
		services = []domain.Service{}
	}

	return c.JSON(http.StatusOK, servicesResponse{
		envelope: ok(""),
		Services: services,
	})
}

// ListCustomers returns customer accounts with their order counts.
//
// @Summary      List customers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  customersResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /orders/admin/customers [get]
func (h *OrderHandler) ListCustomers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	customers, err := h.service.ListCustomers(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customersResponse{
		envelope:  ok(""),
		Customers: customers,
	})
}

// Stats returns dashboard counters.
//
// @Summary      Dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /orders/admin/stats [get]
func (h *OrderHandler) Stats(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	stats, err := h.service.DashboardStats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsResponse{
		envelope: ok(""),
		Stats:    toStatsPayload(stats),
	})
}

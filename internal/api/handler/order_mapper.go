package handler

import (
	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

func toCreateOrderInput(req createOrderRequest) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		UserID:       req.UserID,
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		ServiceID:    req.ServiceID,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	}
}

func toOrderPatch(req updateOrderRequest) domain.OrderPatch {
	return domain.OrderPatch{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		ServiceID:    req.ServiceID,
		Quantity:     req.Quantity,
		Status:       req.Status,
		Notes:        req.Notes,
	}
}

func toOrderResponse(v domain.OrderView) orderResponse {
	return orderResponse{
		ID:            v.ID,
		UserID:        v.UserID,
		OrderNumber:   v.OrderNumber,
		CustomerName:  v.CustomerName,
		PhoneNumber:   v.PhoneNumber,
		ServiceID:     v.ServiceID,
		Quantity:      v.Quantity,
		TotalPrice:    v.TotalPrice,
		Notes:         v.Notes,
		Status:        string(v.Status),
		EntryDate:     v.EntryDate,
		CompletedDate: v.CompletedDate,
		ServiceName:   v.ServiceName,
		Unit:          v.Unit,
		UserFullName:  v.UserFullName,
	}
}

// toOrderDetailResponse adds the unit price shown on the single-order view.
func toOrderDetailResponse(v domain.OrderView) orderResponse {
	resp := toOrderResponse(v)
	price := v.ServicePrice
	resp.Price = &price
	return resp
}

func toOrderResponses(views []domain.OrderView) []orderResponse {
	out := make([]orderResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toOrderResponse(v))
	}
	return out
}

func toHistory(events []domain.OrderEvent) []historyEntry {
	out := make([]historyEntry, 0, len(events))
	for _, e := range events {
		out = append(out, historyEntry{
			Status:    string(e.Status),
			Actor:     e.Actor,
			Timestamp: e.Timestamp,
		})
	}
	return out
}

func toStatsPayload(s *domain.DashboardStats) statsPayload {
	byStatus := make(map[string]int64, len(s.ByStatus))
	for status, n := range s.ByStatus {
		byStatus[string(status)] = n
	}
	return statsPayload{
		TotalOrders:    s.TotalOrders,
		TotalCustomers: s.TotalCustomers,
		ByStatus:       byStatus,
		Revenue:        s.Revenue,
	}
}

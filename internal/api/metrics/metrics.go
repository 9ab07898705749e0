// Package metrics defines the custom Prometheus metrics of the laundry order
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered on the registry passed to New, so tests and the
// server can each own one without clashing on the global default.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mylaundry/order-system/internal/core/domain"
)

const namespace = "laundry"

// Metrics bundles the collectors and implements the recorder interfaces the
// services and the history dispatcher report through.
type Metrics struct {
	// OrdersCreatedTotal counts orders created by admins.
	OrdersCreatedTotal prometheus.Counter

	// OrderStatusChangesTotal counts applied status transitions.
	// Labels:
	//   - from: previous status (e.g. "Antrian")
	//   - to:   new status (e.g. "Proses Cuci")
	OrderStatusChangesTotal *prometheus.CounterVec

	// LoginsTotal counts login attempts.
	// Label:
	//   - result: "success" or "failure"
	LoginsTotal *prometheus.CounterVec

	// HistoryQueueDepth tracks history events waiting in the dispatcher.
	HistoryQueueDepth prometheus.Gauge
}

// New creates every metric and registers it on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OrdersCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of laundry orders created.",
		}),
		OrderStatusChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Total number of order status transitions, by previous and new status.",
		}, []string{"from", "to"}),
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, labelled by result (success/failure).",
		}, []string{"result"}),
		HistoryQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_queue_depth",
			Help:      "Current number of status history events pending in the dispatcher.",
		}),
	}
}

func (m *Metrics) RecordOrderCreated() {
	m.OrdersCreatedTotal.Inc()
}

func (m *Metrics) RecordStatusChange(from, to domain.OrderStatus) {
	m.OrderStatusChangesTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

// QueueDepth returns the gauge the history dispatcher reports to.
func (m *Metrics) QueueDepth() prometheus.Gauge {
	return m.HistoryQueueDepth
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// OrderMetrics counts placed orders, failed placements and the value sold.
type OrderMetrics struct {
	created  prometheus.Counter
	failures *prometheus.CounterVec
	value    prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Orders placed from a cart.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_failures_total",
		Help: "Order placements rejected, by error code.",
	}, []string{"code"})
	value := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_order_value_total",
		Help: "Sum of order totals in rupees.",
	})
	reg.MustRegister(created, failures, value)
	return &OrderMetrics{
		created:  created,
		failures: failures,
		value:    value,
	}
}

// ObserveCreated records one placed order and its total.
func (m *OrderMetrics) ObserveCreated(total decimal.Decimal) {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
	if f, _ := total.Float64(); f > 0 {
		m.value.Add(f)
	}
}

// IncFailure counts a rejected placement under the given error code.
func (m *OrderMetrics) IncFailure(code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FulfillmentMetrics records order-engine activity.
type FulfillmentMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	ordersPlaced     prometheus.Counter
	transitions      *prometheus.CounterVec
	claimConflicts   prometheus.Counter
}

// NewFulfillmentMetrics registers the order metrics on the provided registerer.
func NewFulfillmentMetrics(reg prometheus.Registerer) *FulfillmentMetrics {
	if reg == nil {
		return &FulfillmentMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders created through checkout.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Successful order status transitions.",
	}, []string{"from", "to"})
	claimConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_claim_conflicts_total",
		Help: "Delivery claims lost to a concurrent claimant.",
	})
	reg.MustRegister(checkoutDuration, ordersPlaced, transitions, claimConflicts)
	return &FulfillmentMetrics{
		checkoutDuration: checkoutDuration,
		ordersPlaced:     ordersPlaced,
		transitions:      transitions,
		claimConflicts:   claimConflicts,
	}
}

// ObserveCheckout records the duration of a checkout attempt.
func (m *FulfillmentMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.checkoutDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncOrdersPlaced counts a successfully created order.
func (m *FulfillmentMetrics) IncOrdersPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// IncTransition counts a successful status transition.
func (m *FulfillmentMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// IncClaimConflict counts a delivery claim that lost the race.
func (m *FulfillmentMetrics) IncClaimConflict() {
	if m == nil || m.claimConflicts == nil {
		return
	}
	m.claimConflicts.Inc()
}

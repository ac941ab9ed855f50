package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of the transaction commit pipeline.
type CheckoutMetrics struct {
	duration  *prometheus.HistogramVec
	committed *prometheus.CounterVec
	aborted   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_committed_total",
		Help: "Transactions committed.",
	}, []string{"payment_method"})
	aborted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_aborted_total",
		Help: "Checkout attempts aborted before commit.",
	}, []string{"payment_method", "reason"})
	reg.MustRegister(duration, committed, aborted)
	return &CheckoutMetrics{
		duration:  duration,
		committed: committed,
		aborted:   aborted,
	}
}

// ObserveDuration records the duration of one commit attempt.
func (c *CheckoutMetrics) ObserveDuration(method string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncCommitted increments the committed counter for the payment method.
func (c *CheckoutMetrics) IncCommitted(method string) {
	if c == nil || c.committed == nil {
		return
	}
	c.committed.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncAborted increments the aborted counter for the payment method and reason.
func (c *CheckoutMetrics) IncAborted(method, reason string) {
	if c == nil || c.aborted == nil {
		return
	}
	c.aborted.WithLabelValues(normalizeLabel(method), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

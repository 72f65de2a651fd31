package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics exposes counters for cart and checkout flows.
type CartMetrics struct {
	addsTotal      *prometheus.CounterVec
	removalsTotal  prometheus.Counter
	checkoutsTotal *prometheus.CounterVec
	writeFailures  prometheus.Counter
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	m := &CartMetrics{
		addsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "adds_total",
			Help:      "Total add-to-cart attempts",
		}, []string{"status"}),
		removalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "removals_total",
			Help:      "Total cart item removals",
		}),
		checkoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "submissions_total",
			Help:      "Total checkout submissions",
		}, []string{"status"}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "storage",
			Name:      "write_failures_total",
			Help:      "Durable cart writes that failed and were kept in memory only",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.addsTotal, m.removalsTotal, m.checkoutsTotal, m.writeFailures)
	return m
}

func (m *CartMetrics) ObserveAdd(status string) {
	if m == nil {
		return
	}
	m.addsTotal.WithLabelValues(status).Inc()
}

func (m *CartMetrics) ObserveRemoval() {
	if m == nil {
		return
	}
	m.removalsTotal.Inc()
}

func (m *CartMetrics) ObserveCheckout(status string) {
	if m == nil {
		return
	}
	m.checkoutsTotal.WithLabelValues(status).Inc()
}

func (m *CartMetrics) ObserveWriteFailure() {
	if m == nil {
		return
	}
	m.writeFailures.Inc()
}

// Package metrics exposes Prometheus instrumentation for the marketplace
// client: submissions by operation and outcome, view refreshes, and scan
// sizes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client's collectors.
type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec
	RefreshesTotal   *prometheus.CounterVec
	ScanAccounts     *prometheus.HistogramVec
	RefreshDuration  prometheus.Histogram
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexhire",
			Name:      "submissions_total",
			Help:      "Instruction submissions by operation and outcome.",
		}, []string{"operation", "outcome"}),
		RefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexhire",
			Name:      "view_refreshes_total",
			Help:      "View refreshes by view and outcome.",
		}, []string{"view", "outcome"}),
		ScanAccounts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dexhire",
			Name:      "scan_accounts",
			Help:      "Accounts returned per full scan, by entity.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"entity"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dexhire",
			Name:      "view_refresh_duration_seconds",
			Help:      "Wall time of a full view refresh.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.SubmissionsTotal, m.RefreshesTotal, m.ScanAccounts, m.RefreshDuration)
	return m
}

// ObserveSubmission records one submission attempt outcome.
func (m *Metrics) ObserveSubmission(operation, outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveScan records a scan size.
func (m *Metrics) ObserveScan(entity string, accounts int) {
	if m == nil {
		return
	}
	m.ScanAccounts.WithLabelValues(entity).Observe(float64(accounts))
}

// ObserveRefresh records a view refresh outcome.
func (m *Metrics) ObserveRefresh(view, outcome string) {
	if m == nil {
		return
	}
	m.RefreshesTotal.WithLabelValues(view, outcome).Inc()
}

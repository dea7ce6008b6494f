package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decree engine.
type Metrics struct {
	// Decrees issued by kind
	DecreesIssued *prometheus.CounterVec

	// Decrees deleted (inverse operations) by kind
	DecreesDeleted *prometheus.CounterVec

	// Integrity warnings tolerated during inverse operations
	IntegrityWarnings *prometheus.CounterVec

	// Engine operation latency by operation name
	OperationLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all decree engine metrics registered.
func New() *Metrics {
	return &Metrics{
		DecreesIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chancery_decrees_issued_total",
			Help: "Total decrees issued by kind",
		}, []string{"kind"}), // kind: "correction", "replacement"

		DecreesDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chancery_decrees_deleted_total",
			Help: "Total decrees deleted by kind",
		}, []string{"kind"}),

		IntegrityWarnings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chancery_decree_integrity_warnings_total",
			Help: "Integrity warnings tolerated during decree deletion",
		}, []string{"code"}),

		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chancery_decree_operation_duration_seconds",
			Help:    "Duration of decree engine operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// IncrementIssued records a decree creation.
func (m *Metrics) IncrementIssued(kind string) {
	if m != nil {
		m.DecreesIssued.WithLabelValues(kind).Inc()
	}
}

// IncrementDeleted records a decree deletion.
func (m *Metrics) IncrementDeleted(kind string) {
	if m != nil {
		m.DecreesDeleted.WithLabelValues(kind).Inc()
	}
}

// IncrementWarning records a tolerated integrity warning.
func (m *Metrics) IncrementWarning(code string) {
	if m != nil {
		m.IntegrityWarnings.WithLabelValues(code).Inc()
	}
}

// ObserveOperation records an engine operation's duration.
func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

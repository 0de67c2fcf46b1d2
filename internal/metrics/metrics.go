package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mortuary"

// Result labels for ReconcileCases.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultSkipped = "skipped" // completed, or deleted before it was locked
)

// Recorder holds the billing engine collectors. Build one per registry.
type Recorder struct {
	ReconcileCases        *prometheus.CounterVec
	AuditLogFailures      prometheus.Counter
	DataIntegrityWarnings prometheus.Counter
	BatchDuration         prometheus.Histogram
	ReconcileRunning      prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which tests use.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ReconcileCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_cases_total",
			Help:      "Cases processed by the reconciler, by result.",
		}, []string{"result"}),
		AuditLogFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_log_failures_total",
			Help:      "Charge history entries that could not be written.",
		}),
		DataIntegrityWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_integrity_warnings_total",
			Help:      "Source rows with missing or non-numeric amounts.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_batch_duration_seconds",
			Help:      "Wall time of a full reconciliation batch.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 240, 480},
		}),
		ReconcileRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconcile_running",
			Help:      "1 while a batch is in progress.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.ReconcileCases, r.AuditLogFailures, r.DataIntegrityWarnings, r.BatchDuration, r.ReconcileRunning)
	}
	return r
}

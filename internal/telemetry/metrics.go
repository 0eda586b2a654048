package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	BatchesTotal  prometheus.Counter
	BatchDuration prometheus.Histogram
	FetchesTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics. Registration is
// global; create at most one Metrics per process.
func NewMetrics() *Metrics {
	return &Metrics{
		BatchesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mlfrete_batches_total",
				Help: "Total number of batch quote requests",
			},
		),
		BatchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mlfrete_batch_duration_seconds",
				Help:    "Batch processing duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		FetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mlfrete_fetches_total",
				Help: "Total per-ID fetch outcomes by status and error code",
			},
			[]string{"status", "code"},
		),
	}
}

// RecordBatch records one completed batch.
func (m *Metrics) RecordBatch(duration float64) {
	m.BatchesTotal.Inc()
	m.BatchDuration.Observe(duration)
}

// RecordFetch records one per-ID outcome.
func (m *Metrics) RecordFetch(status, code string) {
	m.FetchesTotal.WithLabelValues(status, code).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the reconciliation engine.
type Metrics struct {
	JobsTotal      *prometheus.CounterVec
	RecordsChanged *prometheus.CounterVec
	JobDuration    *prometheus.HistogramVec
}

// New creates and registers all reconciliation metrics.
func New() *Metrics {
	return &Metrics{
		JobsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shutterops_reconciliation_jobs_total",
			Help: "Reconciliation jobs run, by job type and outcome",
		}, []string{"job", "outcome"}),
		RecordsChanged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shutterops_reconciliation_records_changed_total",
			Help: "Records written by reconciliation jobs, by job type and change kind",
		}, []string{"job", "kind"}),
		JobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shutterops_reconciliation_job_duration_seconds",
			Help:    "Wall time per reconciliation job",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
	}
}

// ObserveJob records one finished job run.
func (m *Metrics) ObserveJob(job, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(job, outcome).Inc()
	m.JobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// AddChanged records written records for a job.
func (m *Metrics) AddChanged(job, kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RecordsChanged.WithLabelValues(job, kind).Add(float64(n))
}

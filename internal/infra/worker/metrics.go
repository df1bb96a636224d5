package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks scheduled job outcomes.
type Metrics struct {
	jobRuns     *prometheus.CounterVec
	jobDuration prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewMetrics creates and registers the worker job metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		jobRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worker_job_runs_total",
				Help: "Total number of scheduled collection runs by status",
			},
			[]string{"status"},
		),
		jobDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "worker_job_duration_seconds",
				Help:    "Duration of scheduled collection runs",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		lastSuccess: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "worker_last_success_timestamp_seconds",
				Help: "Unix timestamp of the last successful collection run",
			},
		),
	}
}

// RecordJobRun records a job transition. Status is "started", "success" or
// "failure".
func (m *Metrics) RecordJobRun(status string) {
	m.jobRuns.WithLabelValues(status).Inc()
}

// RecordJobDuration records how long a run took.
func (m *Metrics) RecordJobDuration(d time.Duration) {
	m.jobDuration.Observe(d.Seconds())
}

// RecordLastSuccess stamps the last successful run at now.
func (m *Metrics) RecordLastSuccess() {
	m.lastSuccess.SetToCurrentTime()
}

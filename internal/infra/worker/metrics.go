package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"advisory-news/internal/pkg/config"
)

// WorkerMetrics tracks scheduled aggregation job outcomes alongside the
// worker's config health.
type WorkerMetrics struct {
	*config.ConfigMetrics

	jobRuns              *prometheus.CounterVec
	jobDuration          prometheus.Histogram
	sourcesProcessed     prometheus.Counter
	lastSuccessTimestamp prometheus.Gauge
}

func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		jobRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worker_aggregation_runs_total",
				Help: "Total scheduled aggregation runs by status",
			},
			[]string{"status"},
		),
		jobDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "worker_aggregation_duration_seconds",
				Help:    "Duration of scheduled aggregation runs",
				Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
			},
		),
		sourcesProcessed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "worker_aggregation_sources_processed_total",
				Help: "Total feed sources processed by scheduled runs",
			},
		),
		lastSuccessTimestamp: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "worker_aggregation_last_success_timestamp",
				Help: "Unix timestamp of the last successful aggregation run",
			},
		),
	}
}

func (m *WorkerMetrics) RecordJobRun(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.jobRuns.WithLabelValues(status).Inc()
}

func (m *WorkerMetrics) RecordJobDuration(d time.Duration) {
	m.jobDuration.Observe(d.Seconds())
}

func (m *WorkerMetrics) RecordSourcesProcessed(count int) {
	m.sourcesProcessed.Add(float64(count))
}

func (m *WorkerMetrics) RecordLastSuccess() {
	m.lastSuccessTimestamp.SetToCurrentTime()
}

// Package metrics defines the Prometheus metrics for the aggregation
// pipeline. Metrics are auto-registered via promauto at package init and
// exposed through the /metrics endpoint of each binary.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track request patterns and performance on the API server
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// RecordHTTPRequest records an HTTP request with its metadata.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Aggregation pipeline metrics
var (
	// FeedFetchesTotal counts feed fetch attempts per source and outcome.
	FeedFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregator_feed_fetches_total",
		Help: "Total number of feed fetch attempts by source and status (success/failure)",
	}, []string{"source", "status"})

	// FeedFetchDuration measures how long a single feed fetch takes.
	FeedFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aggregator_feed_fetch_duration_seconds",
		Help:    "Duration of feed fetch operations in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"source"})

	// CandidatesTotal counts candidate articles extracted per source.
	CandidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregator_candidates_total",
		Help: "Total number of candidate articles extracted from feeds by source",
	}, []string{"source"})

	// StaleItemsTotal counts feed items discarded by the recency window.
	StaleItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aggregator_stale_items_total",
		Help: "Total number of feed items discarded for exceeding the recency window",
	})

	// ArticlesInsertedTotal counts articles written to the store.
	ArticlesInsertedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregator_articles_inserted_total",
		Help: "Total number of new articles inserted by category",
	}, []string{"category"})

	// ArticlesDuplicatedTotal counts candidates skipped as duplicates.
	ArticlesDuplicatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aggregator_articles_duplicated_total",
		Help: "Total number of candidate articles skipped as duplicates",
	})

	// StoreErrorsTotal counts per-item store failures by operation.
	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregator_store_errors_total",
		Help: "Total number of per-item store failures by operation (exists/insert)",
	}, []string{"operation"})

	// RunDuration measures end-to-end aggregation run duration.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregator_run_duration_seconds",
		Help:    "Duration of full aggregation runs in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	// ArticlesTotal is the current count of stored articles.
	ArticlesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aggregator_articles_total",
		Help: "Current total number of articles in the store",
	})
)

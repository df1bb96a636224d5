// Package metrics provides centralized Prometheus metrics for the collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Collection metrics track the collection pipeline
var (
	// CollectionTasksTotal counts started collection tasks by final status
	CollectionTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_tasks_total",
			Help: "Total number of collection tasks by final status",
		},
		[]string{"status"},
	)

	// SourceCollectDuration measures per-source collection duration
	SourceCollectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_collect_duration_seconds",
			Help:    "Time spent collecting a single source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source_type"},
	)

	// RecordsStoredTotal counts stored content records per source
	RecordsStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_stored_total",
			Help: "Total number of content records stored",
		},
		[]string{"source", "source_id"},
	)

	// RecordsDroppedTotal counts records rejected by validation or dedup
	RecordsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_dropped_total",
			Help: "Total number of content records dropped",
		},
		[]string{"reason"},
	)

	// SourcesSkippedTotal counts sources skipped by the recency policy
	SourcesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sources_skipped_recent_total",
			Help: "Sources skipped because they were collected recently",
		},
	)
)

// Fetch metrics track outbound HTTP performance
var (
	// FetchAttemptsTotal counts outbound fetch attempts by outcome
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_attempts_total",
			Help: "Total number of outbound fetch attempts",
		},
		[]string{"status"},
	)

	// FetchDuration measures outbound fetch duration in seconds
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Outbound fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FetchSize measures fetched body size in bytes
	FetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "fetch_size_bytes",
			Help: "Fetched response body size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800, 409600, 819200,
				1638400, 3276800, 6553600, 10485760, // up to 10MB
			},
		},
	)
)

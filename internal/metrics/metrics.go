// Package metrics provides Prometheus metrics for the test-system backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "test_system"
	subsystem = "ingest"
)

// Custom registry to avoid the default Go collectors.
var registry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide metrics registry

var (
	eventsIngested = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "events_total",
		Help:      "Answer events by ingestion outcome.",
	}, []string{"outcome"})

	ingestDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "duration_seconds",
		Help:      "Time spent ingesting a single answer event.",
		Buckets:   prometheus.DefBuckets,
	})

	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	httpRequestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by endpoint and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
)

// Ingestion outcome label values.
const (
	OutcomeLatest    = "processed_latest"
	OutcomeStale     = "processed_stale"
	OutcomeDuplicate = "ignored_duplicate"
)

// RecordIngest records the outcome and latency of one event ingestion
func RecordIngest(outcome string, seconds float64) {
	eventsIngested.WithLabelValues(outcome).Inc()
	ingestDuration.Observe(seconds)
}

// RecordHTTPRequest records one completed HTTP request
func RecordHTTPRequest(endpoint, method, status string, seconds float64) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
	httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
}

// Handler returns the Prometheus exposition handler for the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

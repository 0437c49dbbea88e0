// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry through promauto:
//   - API request count, latency and in-flight gauge
//   - Recommendation latency, outcomes and result size
//   - Object store operation latency
//   - Index cache hits, misses and evictions
//   - Circuit breaker state for the image script endpoint
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIUnauthorized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_unauthorized_total",
			Help: "Total number of requests rejected for a bad API key",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time to produce a recommendation list, including the index fetch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"source"}, // "request", "firestore"
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"source", "result"}, // result: "success", "not_found", "invalid_input", "error"
	)

	RecommendResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_result_size",
			Help:    "Number of recipe keys returned per recommendation",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20},
		},
	)

	RecommendTagWeights = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_tag_weights",
			Help:    "Number of non-zero tag weights per recommendation input",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// Object Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "object_store_operation_duration_seconds",
			Help:    "Duration of object store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "get", "put", "delete"
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "object_store_operation_errors_total",
			Help: "Total number of failed object store operations (missing keys excluded)",
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or invalidation)",
		},
		[]string{"cache_type"},
	)

	// Index Metrics
	IndexEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "index_entries",
			Help: "Number of entries in the last loaded index",
		},
		[]string{"index"}, // "recipes", "materials"
	)

	IndexEntriesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_entries_skipped_total",
			Help: "Total number of index entries dropped because they could not be decoded",
		},
		[]string{"index"},
	)

	IndexWarmTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_warm_total",
			Help: "Total number of background index refreshes by result",
		},
		[]string{"result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Firestore Metrics
	FirestoreTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firestore_token_refreshes_total",
			Help: "Total number of service account token exchanges",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the outcome of one recommendation request.
// resultSize is ignored unless result is "success".
func RecordRecommendation(source, result string, duration time.Duration, resultSize int) {
	RecommendDuration.WithLabelValues(source).Observe(duration.Seconds())
	RecommendRequests.WithLabelValues(source, result).Inc()
	if result == "success" {
		RecommendResultSize.Observe(float64(resultSize))
	}
}

// RecordStoreOperation records an object store call.
func RecordStoreOperation(operation string, duration time.Duration, failed bool) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if failed {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordCacheLookup records a cache hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

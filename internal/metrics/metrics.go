// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package metrics exposes the Prometheus instrumentation of the service.
//
// All collectors register with the default registry through promauto and
// are served on /metrics by promhttp. Callers use the Record* helpers rather
// than touching the vectors directly, so label sets stay consistent.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation runs by outcome",
		},
		[]string{"outcome"}, // "ok", "partial", "no_profile", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end duration of a recommendation run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
	)

	RecommendPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_candidate_pool_size",
			Help:    "Number of distinct candidates gathered per run",
			Buckets: prometheus.LinearBuckets(0, 20, 10),
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of ranked items returned per run",
			Buckets: prometheus.LinearBuckets(0, 10, 7),
		},
	)

	RecommendFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_blocked_filtered_total",
			Help: "Total candidates removed by the blocked-genre filter",
		},
	)

	ProfileBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_profile_builds_total",
			Help: "Total preference profile builds",
		},
		[]string{"trigger", "result"}, // trigger: "finalize", "rebuild"
	)

	// Catalog (TMDB) Metrics
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total catalog API calls by endpoint and result",
		},
		[]string{"endpoint", "result"}, // result: "success", "error", "timeout"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Catalog API call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"endpoint"},
	)

	CatalogHTTPStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_status_total",
			Help: "Catalog API responses by HTTP status code",
		},
		[]string{"status_code"},
	)

	// Taxonomy Cache Metrics
	TaxonomyCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxonomy_cache_hits_total",
			Help: "Total genre taxonomy cache hits",
		},
		[]string{"tier"}, // "memory", "shared"
	)

	TaxonomyCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taxonomy_cache_misses_total",
			Help: "Total genre taxonomy lookups that reached the catalog",
		},
	)

	TaxonomyCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taxonomy_cache_entries",
			Help: "Current number of cached (kind, language) genre maps",
		},
	)

	FeedCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_feed_cache_lookups_total",
			Help: "Trending and release feed cache lookups",
		},
		[]string{"feed", "result"}, // result: "hit", "miss"
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
			Help: "Total requests through circuit breaker by result",
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
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Storage Metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_errors_total",
			Help: "Total number of failed storage operations",
		},
		[]string{"driver", "operation"},
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

// RecordRecommendation records one engine run.
func RecordRecommendation(outcome string, duration time.Duration, poolSize, results, filtered int) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if outcome == "no_profile" || outcome == "error" {
		return
	}
	RecommendPoolSize.Observe(float64(poolSize))
	RecommendResults.Observe(float64(results))
	RecommendFiltered.Add(float64(filtered))
}

// RecordProfileBuild records a profile build triggered by finalize or rebuild.
func RecordProfileBuild(trigger string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProfileBuilds.WithLabelValues(trigger, result).Inc()
}

// RecordCatalogRequest records a catalog API call. statusCode is 0 when no
// HTTP response was received.
func RecordCatalogRequest(endpoint string, statusCode int, duration time.Duration, err error) {
	CatalogRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if statusCode > 0 {
		CatalogHTTPStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	}
	CatalogRequests.WithLabelValues(endpoint, catalogResult(err)).Inc()
}

func catalogResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case isTimeout(err):
		return "timeout"
	default:
		return "error"
	}
}

// RecordTaxonomyLookup records a taxonomy cache lookup. tier is "" for a miss.
func RecordTaxonomyLookup(tier string) {
	if tier == "" {
		TaxonomyCacheMisses.Inc()
		return
	}
	TaxonomyCacheHits.WithLabelValues(tier).Inc()
}

// RecordFeedCacheLookup records a trending or releases feed cache lookup.
func RecordFeedCacheLookup(feed string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	FeedCacheLookups.WithLabelValues(feed, result).Inc()
}

// SetTaxonomyEntries sets the number of cached genre maps.
func SetTaxonomyEntries(n int) {
	TaxonomyCacheEntries.Set(float64(n))
}

// RecordStorageOperation records a storage operation metric
func RecordStorageOperation(driver, operation string, duration time.Duration, err error) {
	StorageOperationDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
	if err != nil {
		StorageErrors.WithLabelValues(driver, operation).Inc()
	}
}

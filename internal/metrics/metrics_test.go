// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// sampleCount reads the observation count of a histogram.
func sampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-only", "200"))

	RecordAPIRequest("GET", "/api/v1/test-only", "200", 25*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/test-only", "200", 5*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-only", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", after-before)
	}
}

// TestTrackActiveRequest verifies the gauge returns to its starting value
func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+2 {
		t.Errorf("active = %v, want %v", got, start+2)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active = %v, want %v", got, start)
	}
}

func TestRecordRecommendation(t *testing.T) {
	okBefore := testutil.ToFloat64(RecommendRequests.WithLabelValues("ok"))
	filteredBefore := testutil.ToFloat64(RecommendFiltered)

	RecordRecommendation("ok", 300*time.Millisecond, 120, 20, 7)
	RecordRecommendation("no_profile", time.Millisecond, 0, 0, 0)

	if got := testutil.ToFloat64(RecommendRequests.WithLabelValues("ok")) - okBefore; got != 1 {
		t.Errorf("ok runs delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendFiltered) - filteredBefore; got != 7 {
		t.Errorf("filtered delta = %v, want 7", got)
	}
}

func TestRecordRecommendation_PoolOnlyForCompletedRuns(t *testing.T) {
	durBefore := sampleCount(t, RecommendDuration)
	poolBefore := sampleCount(t, RecommendPoolSize)

	RecordRecommendation("ok", time.Millisecond, 40, 10, 0)
	RecordRecommendation("error", time.Millisecond, 0, 0, 0)
	RecordRecommendation("no_profile", time.Millisecond, 0, 0, 0)

	if got := sampleCount(t, RecommendDuration) - durBefore; got != 3 {
		t.Errorf("duration samples delta = %d, want 3", got)
	}
	if got := sampleCount(t, RecommendPoolSize) - poolBefore; got != 1 {
		t.Errorf("pool size samples delta = %d, want 1", got)
	}
}

func TestRecordProfileBuild(t *testing.T) {
	before := testutil.ToFloat64(ProfileBuilds.WithLabelValues("finalize", "error"))
	RecordProfileBuild("finalize", errors.New("boom"))
	RecordProfileBuild("finalize", nil)
	if got := testutil.ToFloat64(ProfileBuilds.WithLabelValues("finalize", "error")) - before; got != 1 {
		t.Errorf("finalize errors delta = %v, want 1", got)
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		wantResult string
	}{
		{"success", 200, nil, "success"},
		{"upstream error", 500, errors.New("status 500"), "error"},
		{"deadline", 0, fmt.Errorf("discover: %w", context.DeadlineExceeded), "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := "test_" + tt.name
			RecordCatalogRequest(endpoint, tt.statusCode, 10*time.Millisecond, tt.err)
			if got := testutil.ToFloat64(CatalogRequests.WithLabelValues(endpoint, tt.wantResult)); got != 1 {
				t.Errorf("catalog_requests_total{%s,%s} = %v, want 1", endpoint, tt.wantResult, got)
			}
		})
	}
}

func TestRecordTaxonomyLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(TaxonomyCacheHits.WithLabelValues("memory"))
	missBefore := testutil.ToFloat64(TaxonomyCacheMisses)

	RecordTaxonomyLookup("memory")
	RecordTaxonomyLookup("")

	if got := testutil.ToFloat64(TaxonomyCacheHits.WithLabelValues("memory")) - hitsBefore; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(TaxonomyCacheMisses) - missBefore; got != 1 {
		t.Errorf("misses delta = %v, want 1", got)
	}

	SetTaxonomyEntries(4)
	if got := testutil.ToFloat64(TaxonomyCacheEntries); got != 4 {
		t.Errorf("entries = %v, want 4", got)
	}
}

func TestRecordFeedCacheLookup(t *testing.T) {
	hit := FeedCacheLookups.WithLabelValues("trending", "hit")
	miss := FeedCacheLookups.WithLabelValues("trending", "miss")
	beforeHit, beforeMiss := testutil.ToFloat64(hit), testutil.ToFloat64(miss)

	RecordFeedCacheLookup("trending", true)
	RecordFeedCacheLookup("trending", false)
	RecordFeedCacheLookup("trending", false)

	if d := testutil.ToFloat64(hit) - beforeHit; d != 1 {
		t.Errorf("hit delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(miss) - beforeMiss; d != 2 {
		t.Errorf("miss delta = %v, want 2", d)
	}
}

func TestRecordStorageOperation(t *testing.T) {
	before := testutil.ToFloat64(StorageErrors.WithLabelValues("badger", "test_op"))
	RecordStorageOperation("badger", "test_op", time.Millisecond, nil)
	RecordStorageOperation("badger", "test_op", time.Millisecond, errors.New("disk full"))
	if got := testutil.ToFloat64(StorageErrors.WithLabelValues("badger", "test_op")) - before; got != 1 {
		t.Errorf("storage errors delta = %v, want 1", got)
	}
}

// TestConcurrentMetricRecording verifies the helpers are safe for concurrent use
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordAPIRequest("GET", "/api/v1/concurrent", "200", time.Millisecond)
			RecordCatalogRequest("concurrent", 200, time.Millisecond, nil)
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/concurrent", "200")); got != 20 {
		t.Errorf("concurrent requests = %v, want 20", got)
	}
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		RecommendRequests,
		RecommendDuration,
		RecommendPoolSize,
		RecommendResults,
		RecommendFiltered,
		ProfileBuilds,
		CatalogRequests,
		CatalogRequestDuration,
		CatalogHTTPStatus,
		TaxonomyCacheHits,
		TaxonomyCacheMisses,
		TaxonomyCacheEntries,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		StorageOperationDuration,
		StorageErrors,
	}

	for _, m := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

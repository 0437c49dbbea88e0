// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/search", "200"))

	RecordAPIRequest("GET", "/search", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/search", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name   string
		source string
		result string
		size   int
	}{
		{"success", "request", "success", 7},
		{"not found", "request", "not_found", 0},
		{"firestore error", "firestore", "error", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := RecommendRequests.WithLabelValues(tt.source, tt.result)
			before := testutil.ToFloat64(counter)

			RecordRecommendation(tt.source, tt.result, 3*time.Millisecond, tt.size)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("recommend_requests_total delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordStoreOperation(t *testing.T) {
	errs := StoreOperationErrors.WithLabelValues("put")
	before := testutil.ToFloat64(errs)

	RecordStoreOperation("put", time.Millisecond, false)
	if got := testutil.ToFloat64(errs); got != before {
		t.Errorf("errors changed on success: %v -> %v", before, got)
	}

	RecordStoreOperation("put", time.Millisecond, true)
	if got := testutil.ToFloat64(errs); got != before+1 {
		t.Errorf("errors = %v, want %v", got, before+1)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := CacheHits.WithLabelValues("test_index")
	misses := CacheMisses.WithLabelValues("test_index")

	RecordCacheLookup("test_index", true)
	RecordCacheLookup("test_index", false)
	RecordCacheLookup("test_index", false)

	if got := testutil.ToFloat64(hits); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(misses); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}

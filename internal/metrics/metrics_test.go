// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/sessions/{id}", "200"))
	RecordAPIRequest("GET", "/api/v1/sessions/{id}", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/sessions/{id}", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 1 {
		t.Errorf("active requests delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
}

func TestRecordBackendLookup(t *testing.T) {
	tests := []string{"found", "not_found", "error"}
	for _, outcome := range tests {
		t.Run(outcome, func(t *testing.T) {
			before := testutil.ToFloat64(BackendLookups.WithLabelValues(outcome))
			RecordBackendLookup(outcome, time.Millisecond)
			if got := testutil.ToFloat64(BackendLookups.WithLabelValues(outcome)) - before; got != 1 {
				t.Errorf("delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordGeocode(t *testing.T) {
	before := testutil.ToFloat64(GeocodeLookups.WithLabelValues("nominatim", "zero_results"))
	RecordGeocode("nominatim", "zero_results", 200*time.Millisecond)
	if got := testutil.ToFloat64(GeocodeLookups.WithLabelValues("nominatim", "zero_results")) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
}

func TestRecordCacheHitMiss(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("metrics_test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("metrics_test"))

	RecordCacheHit("metrics_test")
	RecordCacheMiss("metrics_test")
	RecordCacheMiss("metrics_test")

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("metrics_test")) - hits; got != 1 {
		t.Errorf("hits delta = %v", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("metrics_test")) - misses; got != 2 {
		t.Errorf("misses delta = %v", got)
	}
}

func TestTrackSession(t *testing.T) {
	before := testutil.ToFloat64(SessionsActive)
	TrackSession(true)
	if got := testutil.ToFloat64(SessionsActive) - before; got != 1 {
		t.Errorf("sessions delta = %v after open", got)
	}
	TrackSession(false)
	if got := testutil.ToFloat64(SessionsActive) - before; got != 0 {
		t.Errorf("sessions delta = %v after close", got)
	}
}

func TestRecordPhaseTransition(t *testing.T) {
	before := testutil.ToFloat64(SessionPhaseTransitions.WithLabelValues("ready"))
	RecordPhaseTransition("ready", 2*time.Second)
	if got := testutil.ToFloat64(SessionPhaseTransitions.WithLabelValues("ready")) - before; got != 1 {
		t.Errorf("delta = %v", got)
	}
}

func TestRecordMarkers(t *testing.T) {
	before := testutil.ToFloat64(MarkersDrawn.WithLabelValues("urgent"))
	RecordMarkers("urgent", 3)
	if got := testutil.ToFloat64(MarkersDrawn.WithLabelValues("urgent")) - before; got != 3 {
		t.Errorf("delta = %v, want 3", got)
	}
}

func TestRecordWSMessage(t *testing.T) {
	sent := testutil.ToFloat64(WSMessagesSent)
	recv := testutil.ToFloat64(WSMessagesReceived)
	RecordWSMessage(true)
	RecordWSMessage(false)
	if testutil.ToFloat64(WSMessagesSent)-sent != 1 || testutil.ToFloat64(WSMessagesReceived)-recv != 1 {
		t.Error("websocket message counters did not move by one")
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel(404); got != "404" {
		t.Errorf("StatusLabel(404) = %q", got)
	}
}

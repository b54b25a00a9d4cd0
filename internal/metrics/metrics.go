// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

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

	// Recommendation backend
	BackendLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_lookups_total",
			Help: "Recommendation lookups by outcome",
		},
		[]string{"outcome"}, // found, not_found, error
	)

	BackendLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backend_lookup_duration_seconds",
			Help:    "Recommendation lookup latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	BackendRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backend_retries_total",
			Help: "Recommendation lookups retried after HTTP 429",
		},
	)

	// Geocoding
	GeocodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Geocode provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"}, // outcome: ok, zero_results, error
	)

	GeocodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocode_duration_seconds",
			Help:    "Geocode provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	VenuesResolved = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "venues_resolved",
			Help:    "Venues per session by pipeline stage",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"stage"}, // requested, geocoded, deduplicated
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Sessions
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of open map sessions",
		},
	)

	SessionPhaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_phase_transitions_total",
			Help: "Session phase transitions by target phase",
		},
		[]string{"phase"},
	)

	SessionPipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_pipeline_duration_seconds",
			Help:    "Time from session open to leaving the loading phase",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	MapRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_renders_total",
			Help: "Map render requests by result",
		},
		[]string{"result"}, // rebuilt, skipped, error
	)

	MarkersDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_markers_drawn_total",
			Help: "Markers drawn by icon tier",
		},
		[]string{"tier"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
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
		[]string{"name", "result"}, // success, failure, rejected
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
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBackendLookup records one recommendation lookup.
func RecordBackendLookup(outcome string, duration time.Duration) {
	BackendLookups.WithLabelValues(outcome).Inc()
	BackendLookupDuration.Observe(duration.Seconds())
}

// RecordBackendRetry counts a rate-limited retry.
func RecordBackendRetry() {
	BackendRetries.Inc()
}

// RecordGeocode records one provider call.
func RecordGeocode(provider, outcome string, duration time.Duration) {
	GeocodeLookups.WithLabelValues(provider, outcome).Inc()
	GeocodeDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordVenueCounts observes venue counts at each pipeline stage.
func RecordVenueCounts(requested, geocoded, deduplicated int) {
	VenuesResolved.WithLabelValues("requested").Observe(float64(requested))
	VenuesResolved.WithLabelValues("geocoded").Observe(float64(geocoded))
	VenuesResolved.WithLabelValues("deduplicated").Observe(float64(deduplicated))
}

// RecordCacheHit counts a hit for the named cache.
func RecordCacheHit(cache string) {
	CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a miss for the named cache.
func RecordCacheMiss(cache string) {
	CacheMisses.WithLabelValues(cache).Inc()
}

// TrackSession adjusts the open session gauge.
func TrackSession(opened bool) {
	if opened {
		SessionsActive.Inc()
	} else {
		SessionsActive.Dec()
	}
}

// RecordPhaseTransition counts a session leaving loading for phase.
func RecordPhaseTransition(phase string, sinceOpen time.Duration) {
	SessionPhaseTransitions.WithLabelValues(phase).Inc()
	SessionPipelineDuration.Observe(sinceOpen.Seconds())
}

// RecordRender counts a Render call.
func RecordRender(result string) {
	MapRenders.WithLabelValues(result).Inc()
}

// RecordMarkers counts drawn markers per tier.
func RecordMarkers(tier string, n int) {
	MarkersDrawn.WithLabelValues(tier).Add(float64(n))
}

// RecordWSMessage counts a WebSocket frame in either direction.
func RecordWSMessage(sent bool) {
	if sent {
		WSMessagesSent.Inc()
	} else {
		WSMessagesReceived.Inc()
	}
}

// RecordWSError counts a WebSocket failure by type.
func RecordWSError(errorType string) {
	WSErrors.WithLabelValues(errorType).Inc()
}

// StatusLabel formats an HTTP status code for the status_code label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

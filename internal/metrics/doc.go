// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package metrics defines the Prometheus collectors exported on /metrics.

Collectors are package-level promauto values registered with the default
registry. Callers use the Record* helpers rather than touching the vectors
directly so that label sets stay consistent.

# Metric Families

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Pipeline:
  - backend_lookups_total{outcome}, backend_lookup_duration_seconds, backend_retries_total
  - geocode_lookups_total{provider,outcome}, geocode_duration_seconds{provider}
  - venues_resolved{stage}
  - session_phase_transitions_total{phase}, session_pipeline_duration_seconds
  - sessions_active
  - map_renders_total{result}, map_markers_drawn_total{tier}

Infrastructure:
  - cache_hits_total{cache}, cache_misses_total{cache}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_consecutive_failures{name},
    circuit_breaker_state_transitions_total{name,from_state,to_state}
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_received_total, websocket_errors_total{error_type}

# Testing

Use prometheus/testutil against the exported collectors:

	before := testutil.ToFloat64(metrics.BackendLookups.WithLabelValues("found"))
	// exercise code
	after := testutil.ToFloat64(metrics.BackendLookups.WithLabelValues("found"))
*/
package metrics

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package middleware provides the chi middleware shared by every route.

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge by route pattern
  - AccessLog: one zerolog line per request
  - SecurityHeaders: nosniff, referrer policy, no-store, HSTS over TLS

Typical stack, outermost first:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)

PrometheusMetrics is mounted per route group so that /metrics and health
probes do not count themselves.
*/
package middleware

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package api serves the session HTTP API and the session WebSocket stream.

Routes are built with go-chi/chi. Every route goes through a global
middleware stack: request id, real IP, access log, panic recovery and
CORS. The session routes are also per-IP rate limited with go-chi/httprate
and instrumented by the Prometheus middleware.

	POST   /api/v1/sessions                                   create
	GET    /api/v1/sessions/{id}                              snapshot
	DELETE /api/v1/sessions/{id}                              close
	POST   /api/v1/sessions/{id}/location                     device position or denial
	POST   /api/v1/sessions/{id}/markers/{markerID}/activate  marker click
	GET    /api/v1/sessions/{id}/selection                    open overlay
	DELETE /api/v1/sessions/{id}/selection                    dismiss
	GET    /api/v1/sessions/{id}/selection/route              driving route
	GET    /api/v1/sessions/{id}/ws                           event stream
	GET    /api/v1/health/live, /api/v1/health/ready
	GET    /metrics
	GET    /swagger/*                                         API docs (swaggo)

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "Session not found", "request_id": "..."}}

Session creation expects Telegram WebApp initData in the body or in the
X-Telegram-Init-Data header. A plain viewer identity is accepted only when
the server runs with the development identity switch.
*/
package api

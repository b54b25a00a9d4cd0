// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package main

// General API information for swag. Regenerate the docs package after
// changing any handler annotation:
//
//go:generate swag init -g docs.go -d .,../../internal/api -o ../../docs --outputTypes go,json --parseDependency --parseInternal
//
// @title Seruen API
// @version 1.0
// @description Backend for the Seruen Telegram mini-app: opens a map session per launch, resolves the viewer's event recommendations, geocodes and deduplicates venues, and streams the map scene over a WebSocket.
// @description
// @description ## Authentication
// @description
// @description Sessions are opened with the Telegram WebApp initData string, sent in the body or the `X-Telegram-Init-Data` header. The session id returned is the only credential for the session routes.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {"code": "NOT_FOUND", "message": "Session not found", "request_id": "..."},
// @description   "meta": {"request_id": "...", "timestamp": "2026-05-01T12:00:00Z", "duration_ms": 0}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/seruen
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
//
// @tag.name Sessions
// @tag.description Map session lifecycle and device location
// @tag.name Selection
// @tag.description Marker activation, overlay and routing
// @tag.name Health
// @tag.description Liveness and readiness probes

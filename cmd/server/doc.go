// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package main is the entry point for the Seruen server.
//
// Seruen backs a Telegram mini-app that shows a viewer's recommended events
// on a map. Each mini-app launch opens a session that resolves the viewer
// against the recommendation backend, locates the device, geocodes and
// deduplicates the venues, and streams the resulting map scene over a
// WebSocket.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Logging: zerolog, level and format from config
//  3. Components: geocode service (memory + optional badger cache),
//     recommendation client, locator factory, routing planner, WebSocket
//     hub, session manager, HTTP router
//  4. Supervisor tree: data, messaging and api layers (suture v4)
//
// # Configuration
//
// Common environment variables:
//
//	TELEGRAM_BOT_TOKEN       verifies mini-app initData
//	BACKEND_URL              recommendation backend base URL
//	GEOCODE_PROVIDERS        google,nominatim (tried in order)
//	GOOGLE_MAPS_API_KEY      geocoding and driving directions
//	GEOCODE_CACHE_DIR        enables the persistent badger cache
//	GEOLOCATION_PROVIDER     client, geoclue or static
//	LOG_LEVEL, LOG_FORMAT
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for
// server.shutdown_timeout, open sessions are closed and their WebSocket
// clients receive a close frame.
package main

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package supervisor runs Seruen's long-lived services under a
thejerf/suture/v4 tree.

	seruen (root)
	├── data-layer
	│   ├── geocode-cache-janitor
	│   └── geocode-store-gc (when the badger cache is enabled)
	├── messaging-layer
	│   ├── websocket-hub
	│   └── session-reaper
	└── api-layer
	    └── http-server

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog with the zerolog-backed slog handler from internal/logging.

The service wrappers live in the services subpackage. Each one adapts a
blocking component to suture.Service and carries a stable name for logs.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor

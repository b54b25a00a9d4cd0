// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package config loads and validates Seruen configuration.

# Configuration Sources

Configuration is layered with koanf v2, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/seruen/config.yaml or /etc/seruen/config.yml
 3. Environment variables listed in the envTransformFunc mapping table

Unmapped environment variables are ignored.

# Sections

  - Server: listen address and HTTP timeouts
  - Telegram: bot token and initData verification
  - Backend: recommendation backend base URL and retry policy
  - Geocode: provider order, API keys, throttling, caching and fan-out cap
  - Geolocation: which device locator backs a session
  - Map: view defaults and marker icons
  - Session: idle TTL and reaper interval
  - Security: CORS and rate limiting
  - Logging: zerolog level and format

# Example

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	addr := cfg.Server.Addr()

# Environment Variables

	HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
	TELEGRAM_BOT_TOKEN, TELEGRAM_INIT_DATA_MAX_AGE, TELEGRAM_INSECURE_SKIP_VERIFY
	BACKEND_URL, BACKEND_TIMEOUT, BACKEND_MAX_RETRIES
	GEOCODE_PROVIDERS, GOOGLE_MAPS_API_KEY, NOMINATIM_SERVER, NOMINATIM_RATE,
	GEOCODE_TIMEOUT, GEOCODE_MAX_CONCURRENCY, GEOCODE_CACHE_TTL, GEOCODE_CACHE_DIR
	GEOLOCATION_PROVIDER, GEOLOCATION_TIMEOUT, GEOCLUE_DESKTOP_ID,
	GEOLOCATION_STATIC_LAT, GEOLOCATION_STATIC_LNG
	MAP_ZOOM, MAP_STYLE_ID
	SESSION_TTL, SESSION_REAP_INTERVAL
	CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config

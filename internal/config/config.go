// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Telegram    TelegramConfig    `koanf:"telegram"`
	Backend     BackendConfig     `koanf:"backend"`
	Geocode     GeocodeConfig     `koanf:"geocode"`
	Geolocation GeolocationConfig `koanf:"geolocation"`
	Map         MapConfig         `koanf:"map"`
	Session     SessionConfig     `koanf:"session"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// TelegramConfig controls verification of the mini-app initData payload.
type TelegramConfig struct {
	// BotToken signs initData. Required unless InsecureSkipVerify is set.
	BotToken string `koanf:"bot_token"`

	// InitDataMaxAge rejects payloads whose auth_date is older. Zero disables the check.
	InitDataMaxAge time.Duration `koanf:"init_data_max_age"`

	// InsecureSkipVerify accepts unsigned initData. Local development only.
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`
}

// BackendConfig points at the recommendation backend.
type BackendConfig struct {
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
}

// Geocoder provider names accepted in GeocodeConfig.Providers.
const (
	ProviderGoogle    = "google"
	ProviderNominatim = "nominatim"
)

// GeocodeConfig configures venue geocoding.
type GeocodeConfig struct {
	// Providers are tried in order until one returns a coordinate.
	Providers []string `koanf:"providers"`

	GoogleAPIKey string `koanf:"google_api_key"`

	// GoogleBaseURL overrides the Maps API endpoint. Empty uses the public one.
	GoogleBaseURL string `koanf:"google_base_url"`

	NominatimServer string `koanf:"nominatim_server"`

	// NominatimRate is the maximum requests per second sent to Nominatim.
	NominatimRate float64 `koanf:"nominatim_rate"`

	// PerCallTimeout bounds a single provider call.
	PerCallTimeout time.Duration `koanf:"per_call_timeout"`

	// MaxConcurrency caps parallel geocode calls per session. 0 is unbounded.
	MaxConcurrency int `koanf:"max_concurrency"`

	// CacheTTL is how long a resolved coordinate stays cached.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CacheDir enables the persistent badger cache when set.
	CacheDir string `koanf:"cache_dir"`
}

// Geolocation provider names.
const (
	LocatorClient  = "client"
	LocatorGeoClue = "geoclue"
	LocatorStatic  = "static"
)

// GeolocationConfig selects how the viewer position is obtained.
type GeolocationConfig struct {
	// Provider is client (reported by the mini-app), geoclue or static.
	Provider  string        `koanf:"provider"`
	Timeout   time.Duration `koanf:"timeout"`
	DesktopID string        `koanf:"desktop_id"`
	StaticLat float64       `koanf:"static_lat"`
	StaticLng float64       `koanf:"static_lng"`
}

// MapConfig holds map view defaults.
type MapConfig struct {
	Zoom      int     `koanf:"zoom"`
	CenterLat float64 `koanf:"center_lat"`
	CenterLng float64 `koanf:"center_lng"`
	StyleID   string  `koanf:"style_id"`

	ViewerIcon string `koanf:"viewer_icon"`
	UrgentIcon string `koanf:"urgent_icon"`
	SoonIcon   string `koanf:"soon_icon"`
	LaterIcon  string `koanf:"later_icon"`
}

// SessionConfig controls session lifetime.
type SessionConfig struct {
	// TTL closes sessions that have not been touched for this long.
	TTL          time.Duration `koanf:"ttl"`
	ReapInterval time.Duration `koanf:"reap_interval"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

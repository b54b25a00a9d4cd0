// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/seruen/config.yaml",
	"/etc/seruen/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

const iconBase = "https://maps.google.com/mapfiles/ms/icons/"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Telegram: TelegramConfig{
			BotToken:           "",
			InitDataMaxAge:     24 * time.Hour,
			InsecureSkipVerify: false,
		},
		Backend: BackendConfig{
			BaseURL:    "http://localhost:8000/api",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Geocode: GeocodeConfig{
			Providers:       []string{ProviderGoogle},
			GoogleAPIKey:    "",
			NominatimServer: "https://nominatim.openstreetmap.org",
			NominatimRate:   1,
			PerCallTimeout:  10 * time.Second,
			MaxConcurrency:  0, // unbounded
			CacheTTL:        24 * time.Hour,
			CacheDir:        "",
		},
		Geolocation: GeolocationConfig{
			Provider:  LocatorClient,
			Timeout:   30 * time.Second,
			DesktopID: "seruen",
			StaticLat: 39.60128890889341,
			StaticLng: -9.069839810859907,
		},
		Map: MapConfig{
			Zoom:       15,
			CenterLat:  39.60128890889341,
			CenterLng:  -9.069839810859907,
			StyleID:    "",
			ViewerIcon: iconBase + "blue-dot.png",
			UrgentIcon: iconBase + "red-dot.png",
			SoonIcon:   iconBase + "orange-dot.png",
			LaterIcon:  iconBase + "green-dot.png",
		},
		Session: SessionConfig{
			TTL:          30 * time.Minute,
			ReapInterval: time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"https://web.telegram.org"},
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with precedence env > file > defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// BACKEND_URL -> backend.base_url, GEOCODE_PROVIDERS -> geocode.providers
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"geocode.providers",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"telegram_bot_token":            "telegram.bot_token",
	"telegram_init_data_max_age":    "telegram.init_data_max_age",
	"telegram_insecure_skip_verify": "telegram.insecure_skip_verify",

	"backend_url":         "backend.base_url",
	"backend_timeout":     "backend.timeout",
	"backend_max_retries": "backend.max_retries",

	"geocode_providers":       "geocode.providers",
	"google_maps_api_key":     "geocode.google_api_key",
	"google_maps_base_url":    "geocode.google_base_url",
	"nominatim_server":        "geocode.nominatim_server",
	"nominatim_rate":          "geocode.nominatim_rate",
	"geocode_timeout":         "geocode.per_call_timeout",
	"geocode_max_concurrency": "geocode.max_concurrency",
	"geocode_cache_ttl":       "geocode.cache_ttl",
	"geocode_cache_dir":       "geocode.cache_dir",

	"geolocation_provider":   "geolocation.provider",
	"geolocation_timeout":    "geolocation.timeout",
	"geoclue_desktop_id":     "geolocation.desktop_id",
	"geolocation_static_lat": "geolocation.static_lat",
	"geolocation_static_lng": "geolocation.static_lng",

	"map_zoom":       "map.zoom",
	"map_center_lat": "map.center_lat",
	"map_center_lng": "map.center_lng",
	"map_style_id":   "map.style_id",

	"session_ttl":           "session.ttl",
	"session_reap_interval": "session.reap_interval",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped, so unrelated environment
// never leaks into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

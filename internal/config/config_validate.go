// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateTelegram,
		c.validateBackend,
		c.validateGeocode,
		c.validateGeolocation,
		c.validateMap,
		c.validateSession,
		c.validateRateLimits,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.InsecureSkipVerify {
		return nil
	}
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required unless TELEGRAM_INSECURE_SKIP_VERIFY=true")
	}
	if c.Telegram.InitDataMaxAge < 0 {
		return fmt.Errorf("TELEGRAM_INIT_DATA_MAX_AGE must not be negative")
	}
	return nil
}

func (c *Config) validateBackend() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if err := validateHTTPURL(c.Backend.BaseURL, "BACKEND_URL"); err != nil {
		return err
	}
	if c.Backend.MaxRetries < 0 {
		return fmt.Errorf("BACKEND_MAX_RETRIES must not be negative, got %d", c.Backend.MaxRetries)
	}
	return nil
}

func (c *Config) validateGeocode() error {
	if len(c.Geocode.Providers) == 0 {
		return fmt.Errorf("GEOCODE_PROVIDERS must list at least one provider")
	}
	for _, p := range c.Geocode.Providers {
		switch p {
		case ProviderGoogle:
			if c.Geocode.GoogleAPIKey == "" {
				return fmt.Errorf("GOOGLE_MAPS_API_KEY is required when the google geocoder is enabled")
			}
		case ProviderNominatim:
			if err := validateHTTPURL(c.Geocode.NominatimServer, "NOMINATIM_SERVER"); err != nil {
				return err
			}
			if c.Geocode.NominatimRate <= 0 {
				return fmt.Errorf("NOMINATIM_RATE must be positive, got %v", c.Geocode.NominatimRate)
			}
		default:
			return fmt.Errorf("GEOCODE_PROVIDERS: unknown provider %q (valid: google, nominatim)", p)
		}
	}
	if c.Geocode.PerCallTimeout <= 0 {
		return fmt.Errorf("GEOCODE_TIMEOUT must be positive, got %v", c.Geocode.PerCallTimeout)
	}
	if c.Geocode.MaxConcurrency < 0 {
		return fmt.Errorf("GEOCODE_MAX_CONCURRENCY must not be negative, got %d", c.Geocode.MaxConcurrency)
	}
	return nil
}

// HasProvider reports whether name is among the configured geocoders.
func (g GeocodeConfig) HasProvider(name string) bool {
	for _, p := range g.Providers {
		if p == name {
			return true
		}
	}
	return false
}

func (c *Config) validateGeolocation() error {
	switch c.Geolocation.Provider {
	case LocatorClient, LocatorGeoClue:
	case LocatorStatic:
		if err := validateLatLng(c.Geolocation.StaticLat, c.Geolocation.StaticLng); err != nil {
			return fmt.Errorf("GEOLOCATION_STATIC_LAT/LNG: %w", err)
		}
	default:
		return fmt.Errorf("GEOLOCATION_PROVIDER must be client, geoclue or static, got %q", c.Geolocation.Provider)
	}
	if c.Geolocation.Timeout <= 0 {
		return fmt.Errorf("GEOLOCATION_TIMEOUT must be positive, got %v", c.Geolocation.Timeout)
	}
	return nil
}

func (c *Config) validateMap() error {
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		return fmt.Errorf("MAP_ZOOM must be between 0 and 22, got %d", c.Map.Zoom)
	}
	if err := validateLatLng(c.Map.CenterLat, c.Map.CenterLng); err != nil {
		return fmt.Errorf("MAP_CENTER: %w", err)
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %v", c.Session.TTL)
	}
	if c.Session.ReapInterval <= 0 {
		return fmt.Errorf("SESSION_REAP_INTERVAL must be positive, got %v", c.Session.ReapInterval)
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

// ShouldWarnAboutCORS reports whether CORS allows every origin.
func (c *Config) ShouldWarnAboutCORS() bool {
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be trace, debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL requires an http(s) URL with a host. Paths are allowed
// because the backend may be mounted under a prefix.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters", fieldName)
	}
	return nil
}

func validateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range", lng)
	}
	return nil
}

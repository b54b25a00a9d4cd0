// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/tomtom215/seruen/internal/models"
)

// GoogleProvider uses the Google Maps Geocoding API. Any status other than
// OK is treated as no coordinate.
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogleProvider creates a provider. baseURL may be empty.
func NewGoogleProvider(apiKey, baseURL string) (*GoogleProvider, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create google maps client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

// Name returns the provider name.
func (p *GoogleProvider) Name() string {
	return "google"
}

// Geocode looks up address and returns the first result's location.
func (p *GoogleProvider) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("google geocode: %w", err)
	}
	if len(results) == 0 {
		return models.Coordinate{}, ErrNoResult
	}
	loc := results[0].Geometry.Location
	return models.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}

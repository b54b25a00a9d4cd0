// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geocode

import (
	"context"
	"errors"

	"github.com/tomtom215/seruen/internal/models"
)

// ErrNoResult means the provider answered but had no coordinate for the address.
var ErrNoResult = errors.New("no geocoding result")

// Provider geocodes a single address.
type Provider interface {
	// Name is used for logging, metrics and breaker names.
	Name() string

	// Geocode returns the best match for address, or ErrNoResult.
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context, address string) (models.Coordinate, error)
}

// Name implements Provider.
func (p ProviderFunc) Name() string { return p.ProviderName }

// Geocode implements Provider.
func (p ProviderFunc) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	return p.Fn(ctx, address)
}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package geolocate obtains the viewer's position once per session.
//
// A Locator is asked exactly once. There is no watching or polling; any
// error, including a timeout, ends the session in permission_denied.
package geolocate

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/models"
)

var (
	// ErrPermissionDenied means the user or the platform refused location access.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrUnavailable means no position could be obtained in time.
	ErrUnavailable = errors.New("location unavailable")

	// ErrAlreadyReported is returned when a client reports a second time.
	ErrAlreadyReported = errors.New("location already reported")
)

// Locator performs a one-shot position request.
type Locator interface {
	Locate(ctx context.Context) (models.Coordinate, error)
}

// Factory creates the locator for a new session.
type Factory func() Locator

// NewFactory returns a factory for the configured provider.
func NewFactory(cfg config.GeolocationConfig) (Factory, error) {
	switch cfg.Provider {
	case config.LocatorClient, "":
		return func() Locator { return NewReported(cfg.Timeout) }, nil
	case config.LocatorGeoClue:
		g := NewGeoClue(cfg.DesktopID, cfg.Timeout)
		return func() Locator { return g }, nil
	case config.LocatorStatic:
		s := Static{Coordinate: models.Coordinate{Lat: cfg.StaticLat, Lng: cfg.StaticLng}}
		return func() Locator { return s }, nil
	default:
		return nil, fmt.Errorf("unknown geolocation provider %q", cfg.Provider)
	}
}

// Static always answers with a fixed coordinate.
type Static struct {
	Coordinate models.Coordinate
}

// Locate returns the configured coordinate unless ctx is already done.
func (s Static) Locate(ctx context.Context) (models.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinate{}, err
	}
	return s.Coordinate, nil
}

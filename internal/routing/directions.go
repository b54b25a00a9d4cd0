// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package routing plans a driving route from the viewer to a selected venue.
package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"github.com/tomtom215/seruen/internal/circuitbreaker"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/models"
)

// ErrNoRoute means the directions service found no route.
var ErrNoRoute = errors.New("no route found")

// Route summarises the first leg of the best route.
type Route struct {
	Summary        string            `json:"summary"`
	Origin         models.Coordinate `json:"origin"`
	Destination    models.Coordinate `json:"destination"`
	Duration       time.Duration     `json:"-"`
	DurationSecs   int64             `json:"duration_seconds"`
	DurationText   string            `json:"duration_text"`
	DistanceMeters int               `json:"distance_meters"`
	DistanceText   string            `json:"distance_text"`
	Polyline       string            `json:"polyline"`
}

// Planner computes routes.
type Planner interface {
	Plan(ctx context.Context, from, to models.Coordinate) (Route, error)
}

// Directions uses the Google Directions API in driving mode.
type Directions struct {
	client  *maps.Client
	breaker *circuitbreaker.Breaker[Route]
	timeout time.Duration
}

// NewDirections creates a planner. baseURL may be empty.
func NewDirections(apiKey, baseURL string, timeout time.Duration) (*Directions, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create directions client: %w", err)
	}
	return &Directions{
		client:  client,
		timeout: timeout,
		breaker: circuitbreaker.New[Route]("google-directions", circuitbreaker.Settings{
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNoRoute) || errors.Is(err, context.Canceled)
			},
		}),
	}, nil
}

// Plan returns the driving route from one coordinate to another.
func (d *Directions) Plan(ctx context.Context, from, to models.Coordinate) (Route, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	route, err := d.breaker.Execute(func() (Route, error) {
		return d.plan(ctx, from, to)
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).
			Str("origin", from.String()).
			Str("destination", to.String()).
			Msg("route planning failed")
	}
	return route, err
}

func (d *Directions) plan(ctx context.Context, from, to models.Coordinate) (Route, error) {
	routes, _, err := d.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      from.String(),
		Destination: to.String(),
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return Route{}, fmt.Errorf("directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	best := routes[0]
	leg := best.Legs[0]
	return Route{
		Summary:        best.Summary,
		Origin:         from,
		Destination:    to,
		Duration:       leg.Duration,
		DurationSecs:   int64(leg.Duration / time.Second),
		DurationText:   leg.Duration.Round(time.Minute).String(),
		DistanceMeters: leg.Distance.Meters,
		DistanceText:   leg.Distance.HumanReadable,
		Polyline:       best.OverviewPolyline.Points,
	}, nil
}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geocode

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/muesli/gominatim"
	"golang.org/x/time/rate"

	"github.com/tomtom215/seruen/internal/models"
)

// gominatim keeps its server URL in a package variable, so every query is
// serialised behind this lock together with the SetServer call.
var nominatimMu sync.Mutex

// NominatimProvider queries an OpenStreetMap Nominatim server.
type NominatimProvider struct {
	server  string
	limiter *rate.Limiter
}

// NewNominatimProvider creates a provider throttled to perSecond requests.
// The public server's usage policy allows one request per second.
func NewNominatimProvider(server string, perSecond float64) *NominatimProvider {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &NominatimProvider{
		server:  server,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Name returns the provider name.
func (p *NominatimProvider) Name() string {
	return "nominatim"
}

type nominatimAnswer struct {
	results []gominatim.SearchResult
	err     error
}

// Geocode waits for a rate limit token, then searches for address.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return models.Coordinate{}, fmt.Errorf("nominatim throttle: %w", err)
	}

	// gominatim has no context support; the query keeps running in the
	// background if ctx ends first.
	done := make(chan nominatimAnswer, 1)
	go func() {
		nominatimMu.Lock()
		defer nominatimMu.Unlock()
		gominatim.SetServer(p.server)
		q := gominatim.SearchQuery{Q: address, Limit: 1}
		res, err := q.Get()
		done <- nominatimAnswer{results: res, err: err}
	}()

	var ans nominatimAnswer
	select {
	case <-ctx.Done():
		return models.Coordinate{}, ctx.Err()
	case ans = <-done:
	}
	if ans.err != nil {
		return models.Coordinate{}, fmt.Errorf("nominatim search: %w", ans.err)
	}
	if len(ans.results) == 0 {
		return models.Coordinate{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(ans.results[0].Lat, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("nominatim latitude %q: %w", ans.results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(ans.results[0].Lon, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("nominatim longitude %q: %w", ans.results[0].Lon, err)
	}
	return models.Coordinate{Lat: lat, Lng: lng}, nil
}

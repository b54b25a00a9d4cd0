// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package venues geocodes recommendations and collapses those that land on
// the same coordinate down to the soonest event.
package venues

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/seruen/internal/geocode"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/models"
)

// Engine resolves recommendation records into deduplicated venues.
type Engine struct {
	geocoder geocode.Resolver

	// maxConcurrency caps in-flight geocode calls. 0 is unbounded.
	maxConcurrency int
}

// NewEngine creates an engine.
func NewEngine(geocoder geocode.Resolver, maxConcurrency int) *Engine {
	return &Engine{geocoder: geocoder, maxConcurrency: maxConcurrency}
}

// Resolve geocodes every record with a venue, waits for all of them, drops
// the ones that could not be placed, and deduplicates the rest.
func (e *Engine) Resolve(ctx context.Context, records []models.RecommendationRecord) []models.ResolvedVenue {
	start := time.Now()

	candidates := make([]models.RecommendationRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Venue) != "" {
			candidates = append(candidates, r)
		}
	}

	coords := make([]*models.Coordinate, len(candidates))
	var g errgroup.Group
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}
	for i, rec := range candidates {
		g.Go(func() error {
			coords[i] = e.geocoder.ResolveAddress(ctx, rec.Venue)
			return nil
		})
	}
	_ = g.Wait()

	resolved := make([]models.ResolvedVenue, 0, len(candidates))
	for i, c := range coords {
		if c == nil {
			continue
		}
		resolved = append(resolved, models.ResolvedVenue{Coordinate: *c, Recommendation: candidates[i]})
	}

	out := Dedup(resolved)

	metrics.RecordVenueCounts(len(candidates), len(resolved), len(out))
	logging.Ctx(ctx).Debug().
		Int("records", len(records)).
		Int("with_venue", len(candidates)).
		Int("geocoded", len(resolved)).
		Int("venues", len(out)).
		Dur("duration", time.Since(start)).
		Msg("venues resolved")

	return out
}

// Dedup keeps one venue per coordinate key: the one with the earliest date.
// Equal dates keep the first seen. An unparsable date loses to any parsable
// one, and between two unparsable dates the first seen is kept. Survivors
// are returned in order of first appearance of their key.
func Dedup(venues []models.ResolvedVenue) []models.ResolvedVenue {
	type slot struct {
		venue  models.ResolvedVenue
		date   time.Time
		parsed bool
	}

	index := make(map[string]int, len(venues))
	slots := make([]slot, 0, len(venues))

	for _, v := range venues {
		date, parsed := v.Recommendation.ParsedDate()
		key := v.Coordinate.Key()

		i, seen := index[key]
		if !seen {
			index[key] = len(slots)
			slots = append(slots, slot{venue: v, date: date, parsed: parsed})
			continue
		}

		cur := &slots[i]
		if earlier(date, parsed, cur.date, cur.parsed) {
			*cur = slot{venue: v, date: date, parsed: parsed}
		}
	}

	out := make([]models.ResolvedVenue, len(slots))
	for i, s := range slots {
		out[i] = s.venue
	}
	return out
}

// earlier reports whether candidate strictly beats current.
func earlier(candidate time.Time, candidateOK bool, current time.Time, currentOK bool) bool {
	switch {
	case !candidateOK:
		return false
	case !currentOK:
		return true
	default:
		return candidate.Before(current)
	}
}

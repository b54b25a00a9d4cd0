// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package markers decides how a venue marker looks from how soon its event is.
package markers

import (
	"time"

	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/models"
)

// Tier is the urgency bucket of an event.
type Tier string

const (
	// Urgent covers events at most two days away, including past ones.
	Urgent Tier = "urgent"
	// Soon covers events more than two and at most ten days away.
	Soon Tier = "soon"
	// Later covers everything else, including undated events.
	Later Tier = "later"
)

const (
	urgentDays = 2.0
	soonDays   = 10.0
)

// StyleFor buckets an event by the fractional number of days until it starts.
func StyleFor(eventDate, now time.Time) Tier {
	days := eventDate.Sub(now).Hours() / 24
	switch {
	case days <= urgentDays:
		return Urgent
	case days <= soonDays:
		return Soon
	default:
		return Later
	}
}

// ForRecord styles a record. A date that cannot be parsed is Later.
func ForRecord(r models.RecommendationRecord, now time.Time) Tier {
	d, ok := r.ParsedDate()
	if !ok {
		return Later
	}
	return StyleFor(d, now)
}

// Icons maps tiers and the viewer to icon URLs.
type Icons struct {
	Viewer string
	Urgent string
	Soon   string
	Later  string
}

// IconsFromConfig reads the icon URLs from the map section.
func IconsFromConfig(cfg config.MapConfig) Icons {
	return Icons{
		Viewer: cfg.ViewerIcon,
		Urgent: cfg.UrgentIcon,
		Soon:   cfg.SoonIcon,
		Later:  cfg.LaterIcon,
	}
}

// For returns the icon for tier.
func (i Icons) For(t Tier) string {
	switch t {
	case Urgent:
		return i.Urgent
	case Soon:
		return i.Soon
	default:
		return i.Later
	}
}

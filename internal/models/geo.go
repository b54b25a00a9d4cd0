// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package models

import "strconv"

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Key returns the exact "lat,lng" string used to group venues that geocode
// to the same point. There is no tolerance: coordinates that differ in any
// digit produce different keys. Negative zero shares a key with zero.
func (c Coordinate) Key() string {
	lat, lng := c.Lat, c.Lng
	if lat == 0 {
		lat = 0
	}
	if lng == 0 {
		lng = 0
	}
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// String implements fmt.Stringer using the Google Maps "lat,lng" form.
func (c Coordinate) String() string {
	return c.Key()
}

// ResolvedVenue pairs a geocoded coordinate with the recommendation placed there.
type ResolvedVenue struct {
	Coordinate     Coordinate           `json:"coordinate"`
	Recommendation RecommendationRecord `json:"recommendation"`
}

// SameVenues reports whether two venue sets are equal by value, in order.
func SameVenues(a, b []ResolvedVenue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SameCoordinate reports whether two optional coordinates are equal by value.
func SameCoordinate(a, b *Coordinate) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

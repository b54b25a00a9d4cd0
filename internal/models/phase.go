// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package models

// Phase is the lifecycle phase of a map session.
type Phase string

const (
	// PhaseLoading is the initial phase while identity, recommendations,
	// geolocation and geocoding are in flight.
	PhaseLoading Phase = "loading"

	// PhaseNoRecommendations means the backend returned an empty list.
	PhaseNoRecommendations Phase = "no_recommendations"

	// PhasePermissionDenied means the device location was refused or unavailable.
	PhasePermissionDenied Phase = "permission_denied"

	// PhaseReady means the venues are resolved and the map is drawn.
	PhaseReady Phase = "ready"

	// PhaseIdentityError means no usable identifier existed, or every
	// identifier was unknown to the backend.
	PhaseIdentityError Phase = "identity_error"

	// PhaseFailed means the backend could not be reached or answered with an error.
	PhaseFailed Phase = "failed"
)

// Terminal reports whether no further phase transition can happen.
// Ready is not terminal in the state machine sense because selection
// sub-transitions still occur, but the phase itself never changes again.
func (p Phase) Terminal() bool {
	return p != PhaseLoading
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseLoading, PhaseNoRecommendations, PhasePermissionDenied,
		PhaseReady, PhaseIdentityError, PhaseFailed:
		return true
	default:
		return false
	}
}

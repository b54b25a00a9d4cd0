// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package session runs one map session from mount to unmount.
//
// A session starts in loading and moves exactly once to a terminal phase:
//
//	loading -> no_recommendations   backend returned an empty list
//	loading -> permission_denied    device location refused or unavailable
//	loading -> ready                venues resolved and drawn
//	loading -> identity_error       no identifier, or unknown after fallback
//	loading -> failed               backend unreachable or erroring
//
// The recommendation lookup and the location request start together. An
// identity error, a backend error or an empty list settles the phase at once
// and cancels the location request. Otherwise the session waits for the
// location; a denial means nothing is geocoded and no map is created.
//
// In ready, marker clicks select a venue and the Overlay describes it.
// Close cancels in-flight work; anything that completes afterwards is
// discarded without touching the map.
package session

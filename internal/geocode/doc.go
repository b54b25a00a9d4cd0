// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package geocode turns free-text venue addresses into coordinates.
//
// ResolveAddress never returns an error. A venue that cannot be placed (no
// result, non-OK upstream status, transport failure, timeout, open breaker)
// yields nil and is logged at debug level; callers drop it.
//
// Lookups go through two cache tiers before any provider is called:
//
//	memory (internal/cache, TTL) -> badger store (optional) -> providers in order
//
// Only successful lookups are cached. Each provider sits behind its own
// circuit breaker, and each provider call is bounded by the per-call timeout.
package geocode

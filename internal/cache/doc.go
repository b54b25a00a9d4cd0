// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package cache provides a thread-safe in-memory TTL cache.
//
// The geocoder keeps resolved venue coordinates here in front of the
// persistent badger store. Expired entries are dropped lazily on Get and in
// bulk by Run, which the supervisor tree starts as a background service:
//
//	c := cache.New[models.Coordinate](24 * time.Hour)
//	tree.AddDataService(services.NewCacheJanitor(c, 5*time.Minute))
//
// Hit and miss counts are kept locally (GetStats) and, when the cache is
// created with a name via NewNamed, exported as Prometheus counters.
package cache

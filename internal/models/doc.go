// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package models defines the data structures shared by the Seruen map pipeline.

Key Components:

  - ViewerIdentity: the handle and display name a session looks recommendations up by
  - RecommendationRecord: one event recommendation as returned by the backend
  - Coordinate: a latitude/longitude pair produced by a geocoder or geolocator
  - ResolvedVenue: a geocoded recommendation that survived deduplication
  - Phase: the session lifecycle phase

Records coming from the backend are untrusted. Only Venue and Date influence the
pipeline (geocoding and marker styling); every other field is passed through to
the selection overlay verbatim, except TicketLink which is sanitised by the
recommend package before it reaches a session.

Thread Safety:
All types in this package are plain values. They are safe to share once built
and must not be mutated after being handed to a session.
*/
package models

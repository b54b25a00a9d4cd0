// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package mapview draws the viewer and venue markers onto a rendering
// surface.
//
// The Renderer owns the single live View of a session. It rebuilds only when
// the viewer coordinate or the venue set changes by value; a rebuild removes
// every marker it created, destroys the old view, and draws from scratch.
//
// RemoteSurface is the Surface used in production. It keeps a serialisable
// Scene, publishes it to the session's WebSocket stream after each rebuild,
// and routes marker activations back to the handler captured when the
// marker was drawn.
package mapview

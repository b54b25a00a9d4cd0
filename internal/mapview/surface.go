// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package mapview

import (
	"errors"

	"github.com/tomtom215/seruen/internal/markers"
	"github.com/tomtom215/seruen/internal/models"
)

var (
	// ErrViewDestroyed is returned by operations on a destroyed view.
	ErrViewDestroyed = errors.New("map view destroyed")

	// ErrUnknownMarker is returned when activating a marker that is not drawn.
	ErrUnknownMarker = errors.New("unknown marker")

	// ErrNoView is returned when no view exists yet.
	ErrNoView = errors.New("no map view")
)

// ViewOptions configures a new map view.
type ViewOptions struct {
	Center            models.Coordinate `json:"center"`
	Zoom              int               `json:"zoom"`
	MapTypeControl    bool              `json:"mapTypeControl"`
	FullscreenControl bool              `json:"fullscreenControl"`
	StreetViewControl bool              `json:"streetViewControl"`
	MapID             string            `json:"mapId,omitempty"`
}

// MarkerKind distinguishes the viewer marker from venue markers.
type MarkerKind string

const (
	KindViewer MarkerKind = "viewer"
	KindVenue  MarkerKind = "venue"
)

// Marker describes one pin on the map.
type Marker struct {
	ID       string            `json:"id"`
	Kind     MarkerKind        `json:"kind"`
	Position models.Coordinate `json:"position"`
	Icon     string            `json:"icon"`
	Title    string            `json:"title"`
	Tier     markers.Tier      `json:"tier,omitempty"`

	// OnActivate runs when the marker is clicked. Nil for the viewer marker.
	OnActivate func() `json:"-"`
}

// View is a live map instance.
type View interface {
	AddMarker(m Marker) error
	RemoveMarker(id string) error
	Destroy() error
}

// Surface creates map views.
type Surface interface {
	CreateView(opts ViewOptions) (View, error)
}

// Committer is implemented by surfaces that batch changes until a rebuild
// completes.
type Committer interface {
	Commit()
}

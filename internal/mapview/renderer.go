// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package mapview

import (
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/markers"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/models"
)

// Options are the per-deployment view defaults.
type Options struct {
	Zoom          int
	DefaultCenter models.Coordinate
	MapID         string
	Icons         markers.Icons
}

// OptionsFromConfig reads view defaults from the map section.
func OptionsFromConfig(cfg config.MapConfig) Options {
	return Options{
		Zoom:          cfg.Zoom,
		DefaultCenter: models.Coordinate{Lat: cfg.CenterLat, Lng: cfg.CenterLng},
		MapID:         cfg.StyleID,
		Icons:         markers.IconsFromConfig(cfg),
	}
}

// Renderer owns a session's map view.
type Renderer struct {
	surface  Surface
	opts     Options
	onSelect func(models.ResolvedVenue)
	now      func() time.Time

	mu         sync.Mutex
	view       View
	markerIDs  []string
	rendered   bool
	lastViewer *models.Coordinate
	lastVenues []models.ResolvedVenue
}

// NewRenderer creates a renderer. onSelect receives the venue of a clicked marker.
func NewRenderer(surface Surface, opts Options, onSelect func(models.ResolvedVenue)) *Renderer {
	if opts.Zoom == 0 {
		opts.Zoom = 15
	}
	return &Renderer{
		surface:  surface,
		opts:     opts,
		onSelect: onSelect,
		now:      time.Now,
	}
}

// Render draws viewer and venues. It reports whether a rebuild happened;
// identical inputs to the previous successful render are a no-op.
func (r *Renderer) Render(viewer *models.Coordinate, venues []models.ResolvedVenue) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rendered && models.SameCoordinate(r.lastViewer, viewer) && models.SameVenues(r.lastVenues, venues) {
		metrics.RecordRender("skipped")
		return false, nil
	}

	if err := r.teardownLocked(); err != nil {
		logging.Warn().Err(err).Msg("map teardown failed")
	}

	if err := r.buildLocked(viewer, venues); err != nil {
		metrics.RecordRender("error")
		return false, err
	}

	if viewer != nil {
		v := *viewer
		r.lastViewer = &v
	} else {
		r.lastViewer = nil
	}
	r.lastVenues = append([]models.ResolvedVenue(nil), venues...)
	r.rendered = true

	if c, ok := r.surface.(Committer); ok {
		c.Commit()
	}
	metrics.RecordRender("built")
	return true, nil
}

func (r *Renderer) buildLocked(viewer *models.Coordinate, venues []models.ResolvedVenue) error {
	center := r.opts.DefaultCenter
	if viewer != nil {
		center = *viewer
	}

	view, err := r.surface.CreateView(ViewOptions{
		Center: center,
		Zoom:   r.opts.Zoom,
		MapID:  r.opts.MapID,
	})
	if err != nil {
		return fmt.Errorf("create map view: %w", err)
	}
	r.view = view

	if viewer != nil {
		m := Marker{
			ID:       "viewer",
			Kind:     KindViewer,
			Position: *viewer,
			Icon:     r.opts.Icons.Viewer,
			Title:    "You are here",
		}
		if err := r.addLocked(m); err != nil {
			return err
		}
	}

	now := r.now()
	counts := map[markers.Tier]int{}
	for i, v := range venues {
		tier := markers.ForRecord(v.Recommendation, now)
		counts[tier]++
		m := Marker{
			ID:         fmt.Sprintf("venue-%d", i),
			Kind:       KindVenue,
			Position:   v.Coordinate,
			Icon:       r.opts.Icons.For(tier),
			Title:      v.Recommendation.Title,
			Tier:       tier,
			OnActivate: r.activator(v),
		}
		if err := r.addLocked(m); err != nil {
			return err
		}
	}
	for tier, n := range counts {
		metrics.RecordMarkers(string(tier), n)
	}
	return nil
}

// activator binds v at creation time so each marker selects its own venue.
func (r *Renderer) activator(v models.ResolvedVenue) func() {
	return func() {
		if r.onSelect != nil {
			r.onSelect(v)
		}
	}
}

func (r *Renderer) addLocked(m Marker) error {
	if err := r.view.AddMarker(m); err != nil {
		return fmt.Errorf("add marker %s: %w", m.ID, err)
	}
	r.markerIDs = append(r.markerIDs, m.ID)
	return nil
}

func (r *Renderer) teardownLocked() error {
	if r.view == nil {
		return nil
	}
	var firstErr error
	for _, id := range r.markerIDs {
		if err := r.view.RemoveMarker(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.markerIDs = nil
	if err := r.view.Destroy(); err != nil && firstErr == nil {
		firstErr = err
	}
	r.view = nil
	r.rendered = false
	return firstErr
}

// Destroy removes every marker and the view.
func (r *Renderer) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.teardownLocked()
	r.lastViewer, r.lastVenues = nil, nil
	return err
}

// Rendered reports whether a view is currently drawn.
func (r *Renderer) Rendered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendered
}

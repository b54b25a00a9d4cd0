// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package mapview

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/seruen/internal/markers"
	"github.com/tomtom215/seruen/internal/models"
)

// recordingSurface logs every call made on it and its views.
type recordingSurface struct {
	mu        sync.Mutex
	views     []*recordingView
	createErr error
}

type recordingView struct {
	opts      ViewOptions
	added     []Marker
	removed   []string
	destroyed bool
}

func (s *recordingSurface) CreateView(opts ViewOptions) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	v := &recordingView{opts: opts}
	s.views = append(s.views, v)
	return v, nil
}

func (v *recordingView) AddMarker(m Marker) error { v.added = append(v.added, m); return nil }

func (v *recordingView) RemoveMarker(id string) error { v.removed = append(v.removed, id); return nil }

func (v *recordingView) Destroy() error { v.destroyed = true; return nil }

func testOptions() Options {
	return Options{
		Zoom:          15,
		DefaultCenter: models.Coordinate{Lat: 39.60128890889341, Lng: -9.069839810859907},
		Icons:         markers.Icons{Viewer: "blue", Urgent: "red", Soon: "orange", Later: "green"},
	}
}

var testNow = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func newTestRenderer(s Surface, onSelect func(models.ResolvedVenue)) *Renderer {
	r := NewRenderer(s, testOptions(), onSelect)
	r.now = func() time.Time { return testNow }
	return r
}

func sampleVenues() []models.ResolvedVenue {
	return []models.ResolvedVenue{
		{Coordinate: models.Coordinate{Lat: 1, Lng: 1}, Recommendation: models.RecommendationRecord{Title: "tomorrow", Date: "2026-05-02"}},
		{Coordinate: models.Coordinate{Lat: 2, Lng: 2}, Recommendation: models.RecommendationRecord{Title: "next week", Date: "2026-05-07"}},
		{Coordinate: models.Coordinate{Lat: 3, Lng: 3}, Recommendation: models.RecommendationRecord{Title: "summer", Date: "2026-07-01"}},
	}
}

func TestRenderDrawsViewerAndVenues(t *testing.T) {
	t.Parallel()

	s := &recordingSurface{}
	r := newTestRenderer(s, nil)
	viewer := &models.Coordinate{Lat: 38.7, Lng: -9.1}

	built, err := r.Render(viewer, sampleVenues())
	if err != nil || !built {
		t.Fatalf("Render() = %v, %v", built, err)
	}
	if len(s.views) != 1 {
		t.Fatalf("views created = %d, want 1", len(s.views))
	}
	v := s.views[0]
	if v.opts.Center != *viewer || v.opts.Zoom != 15 {
		t.Errorf("view options = %+v", v.opts)
	}
	if v.opts.MapTypeControl || v.opts.FullscreenControl || v.opts.StreetViewControl {
		t.Error("map controls must be disabled")
	}
	if len(v.added) != 4 {
		t.Fatalf("markers = %d, want 4", len(v.added))
	}

	viewerMarkers := 0
	for _, m := range v.added {
		if m.Kind == KindViewer {
			viewerMarkers++
			if m.Icon != "blue" || m.OnActivate != nil {
				t.Errorf("viewer marker = %+v", m)
			}
		}
	}
	if viewerMarkers != 1 {
		t.Errorf("viewer markers = %d, want 1", viewerMarkers)
	}

	wantIcons := []string{"red", "orange", "green"}
	for i, m := range v.added[1:] {
		if m.Icon != wantIcons[i] {
			t.Errorf("venue %d icon = %s, want %s", i, m.Icon, wantIcons[i])
		}
	}
}

func TestRenderGuardSkipsIdenticalInput(t *testing.T) {
	t.Parallel()

	s := &recordingSurface{}
	r := newTestRenderer(s, nil)
	viewer := &models.Coordinate{Lat: 38.7, Lng: -9.1}

	if _, err := r.Render(viewer, sampleVenues()); err != nil {
		t.Fatal(err)
	}
	sameViewer := &models.Coordinate{Lat: 38.7, Lng: -9.1}
	built, err := r.Render(sameViewer, sampleVenues())
	if err != nil || built {
		t.Errorf("Render(identical) = %v, %v; want no rebuild", built, err)
	}
	if len(s.views) != 1 {
		t.Errorf("views created = %d, want 1", len(s.views))
	}
}

func TestRenderRebuildTearsDown(t *testing.T) {
	t.Parallel()

	s := &recordingSurface{}
	r := newTestRenderer(s, nil)
	viewer := &models.Coordinate{Lat: 38.7, Lng: -9.1}

	if _, err := r.Render(viewer, sampleVenues()); err != nil {
		t.Fatal(err)
	}
	built, err := r.Render(viewer, sampleVenues()[:1])
	if err != nil || !built {
		t.Fatalf("Render(changed) = %v, %v", built, err)
	}

	old := s.views[0]
	if !old.destroyed {
		t.Error("old view not destroyed")
	}
	if len(old.removed) != 4 {
		t.Errorf("old markers removed = %d, want 4", len(old.removed))
	}
	if got := len(s.views[1].added); got != 2 {
		t.Errorf("new markers = %d, want 2", got)
	}
}

func TestRenderViewerChangeRebuilds(t *testing.T) {
	t.Parallel()

	s := &recordingSurface{}
	r := newTestRenderer(s, nil)
	if _, err := r.Render(&models.Coordinate{Lat: 1, Lng: 1}, sampleVenues()); err != nil {
		t.Fatal(err)
	}
	built, _ := r.Render(&models.Coordinate{Lat: 1, Lng: 1.0000001}, sampleVenues())
	if !built {
		t.Error("viewer change did not rebuild")
	}
}

func TestActivationCapturesOwnVenue(t *testing.T) {
	t.Parallel()

	var selected []string
	s := &recordingSurface{}
	r := newTestRenderer(s, func(v models.ResolvedVenue) {
		selected = append(selected, v.Recommendation.Title)
	})
	if _, err := r.Render(&models.Coordinate{}, sampleVenues()); err != nil {
		t.Fatal(err)
	}

	added := s.views[0].added
	added[3].OnActivate()
	added[1].OnActivate()

	if len(selected) != 2 || selected[0] != "summer" || selected[1] != "tomorrow" {
		t.Errorf("selected = %q", selected)
	}
}

func TestRenderWithoutViewerUsesDefaultCenter(t *testing.T) {
	t.Parallel()

	s := &recordingSurface{}
	r := newTestRenderer(s, nil)
	if _, err := r.Render(nil, nil); err != nil {
		t.Fatal(err)
	}
	if s.views[0].opts.Center != testOptions().DefaultCenter {
		t.Errorf("center = %v", s.views[0].opts.Center)
	}
	if len(s.views[0].added) != 0 {
		t.Errorf("markers = %d, want 0", len(s.views[0].added))
	}
}

func TestRenderCreateError(t *testing.T) {
	t.Parallel()

	s := &recordingSurface{createErr: errors.New("maps script failed")}
	r := newTestRenderer(s, nil)
	if _, err := r.Render(&models.Coordinate{}, sampleVenues()); err == nil {
		t.Fatal("expected error")
	}
	if r.Rendered() {
		t.Error("renderer reports rendered after failure")
	}
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	s := &recordingSurface{}
	r := newTestRenderer(s, nil)
	if _, err := r.Render(&models.Coordinate{}, sampleVenues()); err != nil {
		t.Fatal(err)
	}
	if err := r.Destroy(); err != nil {
		t.Fatal(err)
	}
	if !s.views[0].destroyed || r.Rendered() {
		t.Error("Destroy() left the view alive")
	}
	if built, _ := r.Render(&models.Coordinate{}, sampleVenues()); !built {
		t.Error("Render() after Destroy() should rebuild")
	}
}

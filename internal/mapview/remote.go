// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package mapview

import (
	"fmt"
	"sync"
)

// Scene is the serialisable state of a remote map.
type Scene struct {
	Version int          `json:"version"`
	Options *ViewOptions `json:"options,omitempty"`
	Markers []Marker     `json:"markers"`
}

// Publisher receives the scene after every committed change.
type Publisher interface {
	PublishScene(scene Scene)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Scene)

// PublishScene implements Publisher.
func (f PublisherFunc) PublishScene(s Scene) { f(s) }

// RemoteSurface renders into a Scene that the mini-app draws.
type RemoteSurface struct {
	publisher Publisher

	mu      sync.Mutex
	version int
	view    *remoteView
}

// NewRemoteSurface creates a surface. publisher may be nil.
func NewRemoteSurface(publisher Publisher) *RemoteSurface {
	return &RemoteSurface{publisher: publisher}
}

// CreateView replaces any current view.
func (s *RemoteSurface) CreateView(opts ViewOptions) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != nil {
		s.view.destroyed = true
	}
	s.view = &remoteView{surface: s, opts: opts, index: map[string]int{}}
	return s.view, nil
}

// Commit bumps the scene version and publishes it.
func (s *RemoteSurface) Commit() {
	s.mu.Lock()
	s.version++
	scene := s.sceneLocked()
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishScene(scene)
	}
}

// Scene returns a copy of the current scene.
func (s *RemoteSurface) Scene() Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sceneLocked()
}

func (s *RemoteSurface) sceneLocked() Scene {
	scene := Scene{Version: s.version, Markers: []Marker{}}
	if s.view == nil || s.view.destroyed {
		return scene
	}
	opts := s.view.opts
	scene.Options = &opts
	scene.Markers = append(scene.Markers, s.view.markers...)
	return scene
}

// Activate runs the click handler of markerID.
func (s *RemoteSurface) Activate(markerID string) error {
	s.mu.Lock()
	if s.view == nil || s.view.destroyed {
		s.mu.Unlock()
		return ErrNoView
	}
	i, ok := s.view.index[markerID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMarker, markerID)
	}
	handler := s.view.markers[i].OnActivate
	s.mu.Unlock()

	// Outside the lock: the handler publishes selection changes.
	if handler == nil {
		return fmt.Errorf("%w: %s is not selectable", ErrUnknownMarker, markerID)
	}
	handler()
	return nil
}

type remoteView struct {
	surface   *RemoteSurface
	opts      ViewOptions
	markers   []Marker
	index     map[string]int
	destroyed bool
}

func (v *remoteView) AddMarker(m Marker) error {
	v.surface.mu.Lock()
	defer v.surface.mu.Unlock()
	if v.destroyed {
		return ErrViewDestroyed
	}
	if _, dup := v.index[m.ID]; dup {
		return fmt.Errorf("duplicate marker id %q", m.ID)
	}
	v.index[m.ID] = len(v.markers)
	v.markers = append(v.markers, m)
	return nil
}

func (v *remoteView) RemoveMarker(id string) error {
	v.surface.mu.Lock()
	defer v.surface.mu.Unlock()
	if v.destroyed {
		return ErrViewDestroyed
	}
	i, ok := v.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMarker, id)
	}
	v.markers = append(v.markers[:i], v.markers[i+1:]...)
	delete(v.index, id)
	for j := i; j < len(v.markers); j++ {
		v.index[v.markers[j].ID] = j
	}
	return nil
}

func (v *remoteView) Destroy() error {
	v.surface.mu.Lock()
	defer v.surface.mu.Unlock()
	if v.destroyed {
		return ErrViewDestroyed
	}
	v.destroyed = true
	v.markers = nil
	v.index = map[string]int{}
	return nil
}

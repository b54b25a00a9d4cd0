// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/seruen/internal/geolocate"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/mapview"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/models"
)

// ErrSessionNotFound is returned for unknown or reaped session ids.
var ErrSessionNotFound = errors.New("session not found")

// ManagerConfig wires the shared collaborators of every session.
type ManagerConfig struct {
	Identity IdentityResolver
	Venues   VenueResolver
	Locators geolocate.Factory
	Map      mapview.Options
	Notifier Notifier

	// TTL closes sessions idle for longer. Zero disables reaping.
	TTL time.Duration

	// ReapInterval is how often Serve looks for idle sessions. Default 1m.
	ReapInterval time.Duration

	// OnClose runs after a session is closed by Close, Reap or CloseAll.
	// The websocket hub uses it to disconnect the session's stream.
	OnClose func(id string)
}

// Manager owns the live sessions.
type Manager struct {
	cfg ManagerConfig
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = time.Minute
	}
	return &Manager{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session for viewer and starts its pipeline.
func (m *Manager) Create(viewer models.ViewerIdentity) *Session {
	s := New(Config{
		ID:       uuid.NewString(),
		Viewer:   viewer,
		Identity: m.cfg.Identity,
		Venues:   m.cfg.Venues,
		Locator:  m.cfg.Locators(),
		Map:      m.cfg.Map,
		Notifier: m.cfg.Notifier,
	})
	s.now = m.now
	s.touched = m.now()

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	metrics.TrackSession(true)
	logging.Info().Str("session_id", s.ID()).Msg("session opened")

	s.Start()
	return s
}

// Get returns a live session and marks it used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Close closes and forgets a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	m.closed(s)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap closes sessions idle for longer than the TTL and returns how many.
func (m *Manager) Reap() int {
	if m.cfg.TTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.TTL)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		m.closed(s)
	}
	if len(idle) > 0 {
		logging.Debug().Int("reaped", len(idle)).Msg("idle sessions closed")
	}
	return len(idle)
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		m.closed(s)
	}
}

// closed finishes a session already removed from the map.
func (m *Manager) closed(s *Session) {
	s.Close()
	metrics.TrackSession(false)
	if m.cfg.OnClose != nil {
		m.cfg.OnClose(s.ID())
	}
}

// Serve reaps idle sessions until ctx is done, then closes the rest.
func (m *Manager) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.ReapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return ctx.Err()
		case <-ticker.C:
			m.Reap()
		}
	}
}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/seruen/internal/geolocate"
	"github.com/tomtom215/seruen/internal/identity"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/mapview"
	"github.com/tomtom215/seruen/internal/markers"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/models"
	"github.com/tomtom215/seruen/internal/routing"
)

var (
	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrNotReady is returned when an operation needs the ready phase.
	ErrNotReady = errors.New("session is not ready")

	// ErrNoSelection is returned when no venue is selected.
	ErrNoSelection = errors.New("no venue selected")

	// ErrLocationNotAccepted is returned when the session's locator does not
	// take reports from the client.
	ErrLocationNotAccepted = errors.New("session does not accept client location")
)

// IdentityResolver looks the viewer up against the backend.
type IdentityResolver interface {
	Resolve(ctx context.Context, viewer models.ViewerIdentity) (identity.Resolution, error)
}

// VenueResolver geocodes and deduplicates records.
type VenueResolver interface {
	Resolve(ctx context.Context, records []models.RecommendationRecord) []models.ResolvedVenue
}

// locationReporter is implemented by locators fed by the mini-app.
type locationReporter interface {
	Report(c models.Coordinate) error
	Deny() error
}

// Session is one map session.
type Session struct {
	id       string
	viewer   models.ViewerIdentity
	created  time.Time
	identity IdentityResolver
	venues   VenueResolver
	locator  geolocate.Locator
	surface  *mapview.RemoteSurface
	renderer *mapview.Renderer
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	phase       models.Phase
	cause       error
	viewerCoord *models.Coordinate
	resolved    []models.ResolvedVenue
	selected    *models.ResolvedVenue
	closed      bool
	touched     time.Time
}

// Config carries the collaborators of a new session.
type Config struct {
	ID       string
	Viewer   models.ViewerIdentity
	Identity IdentityResolver
	Venues   VenueResolver
	Locator  geolocate.Locator
	Map      mapview.Options
	Notifier Notifier
}

// New creates a session in loading. Call Start to run the pipeline.
func New(cfg Config) *Session {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	ctx, cancel := context.WithCancel(logging.ContextWithSessionID(context.Background(), cfg.ID))
	s := &Session{
		id:       cfg.ID,
		viewer:   cfg.Viewer,
		created:  time.Now(),
		identity: cfg.Identity,
		venues:   cfg.Venues,
		locator:  cfg.Locator,
		notifier: notifier,
		log:      logging.WithComponent("session").With().Str("session_id", cfg.ID).Logger(),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		phase:    models.PhaseLoading,
	}
	s.touched = s.created
	s.surface = mapview.NewRemoteSurface(mapview.PublisherFunc(func(scene mapview.Scene) {
		s.notifier.Notify(s.id, Event{Type: EventScene, Data: scene})
	}))
	s.renderer = mapview.NewRenderer(s.surface, cfg.Map, s.selectVenue)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Start runs the pipeline in its own goroutine.
func (s *Session) Start() {
	go s.run()
}

// Done is closed when the pipeline goroutine has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

type locateResult struct {
	coord models.Coordinate
	err   error
}

func (s *Session) run() {
	defer close(s.done)
	ctx := s.ctx

	locateCtx, cancelLocate := context.WithCancel(ctx)
	defer cancelLocate()
	located := make(chan locateResult, 1)
	go func() {
		c, err := s.locator.Locate(locateCtx)
		located <- locateResult{coord: c, err: err}
	}()

	res, err := s.identity.Resolve(ctx, s.viewer)
	if err != nil {
		cancelLocate()
		if ctx.Err() != nil {
			return
		}
		if identity.IsIdentityError(err) {
			s.settle(models.PhaseIdentityError, err)
		} else {
			s.settle(models.PhaseFailed, err)
		}
		return
	}
	if len(res.Records) == 0 {
		cancelLocate()
		s.settle(models.PhaseNoRecommendations, nil)
		return
	}

	var loc locateResult
	select {
	case loc = <-located:
	case <-ctx.Done():
		return
	}
	if loc.err != nil {
		if ctx.Err() != nil {
			return
		}
		s.settle(models.PhasePermissionDenied, loc.err)
		return
	}

	venues := s.venues.Resolve(ctx, res.Records)
	if ctx.Err() != nil {
		return
	}
	s.ready(loc.coord, venues)
}

// settle moves to a terminal non-ready phase. It is a no-op once closed or
// once a terminal phase was reached.
func (s *Session) settle(phase models.Phase, cause error) {
	s.mu.Lock()
	if s.closed || s.phase != models.PhaseLoading {
		s.mu.Unlock()
		return
	}
	s.phase, s.cause = phase, cause
	s.mu.Unlock()

	s.announce(phase, cause)
}

func (s *Session) ready(viewer models.Coordinate, venues []models.ResolvedVenue) {
	s.mu.Lock()
	if s.closed || s.phase != models.PhaseLoading {
		s.mu.Unlock()
		return
	}
	s.phase = models.PhaseReady
	s.viewerCoord = &viewer
	s.resolved = venues
	s.selected = nil
	s.mu.Unlock()

	s.announce(models.PhaseReady, nil)

	// The lock is held while drawing so Close cannot interleave with it.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, err := s.renderer.Render(s.viewerCoord, s.resolved); err != nil {
		s.log.Error().Err(err).Msg("map render failed")
	}
}

func (s *Session) announce(phase models.Phase, cause error) {
	metrics.RecordPhaseTransition(string(phase), time.Since(s.created))

	data := PhaseData{Phase: string(phase)}
	ev := s.log.Info().Str("phase", string(phase))
	if cause != nil {
		data.Error = cause.Error()
		ev = ev.Err(cause)
	}
	ev.Msg("session phase changed")

	s.notifier.Notify(s.id, Event{Type: EventPhase, Data: data})
}

// selectVenue is the marker activation callback.
func (s *Session) selectVenue(v models.ResolvedVenue) {
	s.mu.Lock()
	if s.closed || s.phase != models.PhaseReady || !containsVenue(s.resolved, v) {
		s.mu.Unlock()
		return
	}
	s.selected = &v
	s.mu.Unlock()

	o := NewOverlay(v)
	s.notifier.Notify(s.id, Event{Type: EventSelection, Data: &o})
}

func containsVenue(set []models.ResolvedVenue, v models.ResolvedVenue) bool {
	for _, candidate := range set {
		if candidate == v {
			return true
		}
	}
	return false
}

// Activate handles a click on markerID and returns the resulting overlay.
func (s *Session) Activate(markerID string) (Overlay, error) {
	if err := s.requireReady(); err != nil {
		return Overlay{}, err
	}
	if err := s.surface.Activate(markerID); err != nil {
		return Overlay{}, err
	}
	o, ok := s.Selection()
	if !ok {
		return Overlay{}, ErrNoSelection
	}
	return o, nil
}

// Selection returns the current overlay.
func (s *Session) Selection() (Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.now()
	if s.selected == nil {
		return Overlay{}, false
	}
	return NewOverlay(*s.selected), true
}

// Dismiss clears the selection.
func (s *Session) Dismiss() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.touched = s.now()
	had := s.selected != nil
	s.selected = nil
	s.mu.Unlock()

	if had {
		s.notifier.Notify(s.id, Event{Type: EventSelection, Data: nil})
	}
	return nil
}

// ReportLocation forwards the mini-app's device position.
func (s *Session) ReportLocation(c models.Coordinate) error {
	r, err := s.reporter()
	if err != nil {
		return err
	}
	return r.Report(c)
}

// DenyLocation forwards the mini-app's location denial.
func (s *Session) DenyLocation() error {
	r, err := s.reporter()
	if err != nil {
		return err
	}
	return r.Deny()
}

func (s *Session) reporter() (locationReporter, error) {
	s.mu.Lock()
	closed := s.closed
	s.touched = s.now()
	s.mu.Unlock()
	if closed {
		return nil, ErrSessionClosed
	}
	r, ok := s.locator.(locationReporter)
	if !ok {
		return nil, ErrLocationNotAccepted
	}
	return r, nil
}

// Route plans a route from the viewer to the selected venue.
func (s *Session) Route(ctx context.Context, planner routing.Planner) (routing.Route, error) {
	if err := s.requireReady(); err != nil {
		return routing.Route{}, err
	}
	s.mu.Lock()
	sel, viewer := s.selected, s.viewerCoord
	s.mu.Unlock()
	if sel == nil {
		return routing.Route{}, ErrNoSelection
	}
	route, err := planner.Plan(ctx, *viewer, sel.Coordinate)
	if err != nil {
		return routing.Route{}, fmt.Errorf("plan route: %w", err)
	}
	return route, nil
}

func (s *Session) requireReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.touched = s.now()
	if s.phase != models.PhaseReady {
		return ErrNotReady
	}
	return nil
}

// Scene returns the current map scene.
func (s *Session) Scene() mapview.Scene {
	return s.surface.Scene()
}

// Phase returns the current phase.
func (s *Session) Phase() models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// IdleSince returns when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Touch marks the session as used.
func (s *Session) Touch() {
	s.mu.Lock()
	s.touched = s.now()
	s.mu.Unlock()
}

// Close cancels in-flight work and destroys the map. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	if err := s.renderer.Destroy(); err != nil {
		s.log.Debug().Err(err).Msg("map destroy failed")
	}
	s.selected = nil
	s.mu.Unlock()

	s.log.Debug().Msg("session closed")
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// VenueView is a resolved venue as shown to the mini-app.
type VenueView struct {
	MarkerID       string                      `json:"marker_id"`
	Coordinate     models.Coordinate           `json:"coordinate"`
	Recommendation models.RecommendationRecord `json:"recommendation"`
	Tier           markers.Tier                `json:"tier"`
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID               string             `json:"id"`
	Phase            models.Phase       `json:"phase"`
	Error            string             `json:"error,omitempty"`
	ViewerCoordinate *models.Coordinate `json:"viewer_coordinate,omitempty"`
	Venues           []VenueView        `json:"venues"`
	Selection        *Overlay           `json:"selection,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// Snapshot returns the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.now()

	snap := Snapshot{
		ID:        s.id,
		Phase:     s.phase,
		Venues:    make([]VenueView, 0, len(s.resolved)),
		CreatedAt: s.created,
	}
	if s.cause != nil {
		snap.Error = s.cause.Error()
	}
	if s.viewerCoord != nil {
		c := *s.viewerCoord
		snap.ViewerCoordinate = &c
	}
	now := s.now()
	for i, v := range s.resolved {
		snap.Venues = append(snap.Venues, VenueView{
			MarkerID:       fmt.Sprintf("venue-%d", i),
			Coordinate:     v.Coordinate,
			Recommendation: v.Recommendation,
			Tier:           markers.ForRecord(v.Recommendation, now),
		})
	}
	if s.selected != nil {
		o := NewOverlay(*s.selected)
		snap.Selection = &o
	}
	return snap
}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/seruen/internal/geolocate"
	"github.com/tomtom215/seruen/internal/identity"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/mapview"
	"github.com/tomtom215/seruen/internal/models"
	"github.com/tomtom215/seruen/internal/routing"
	"github.com/tomtom215/seruen/internal/session"
	ws "github.com/tomtom215/seruen/internal/websocket"
)

// CreateSession opens a map session for the viewer described by the
// Telegram initData and starts its pipeline.
//
// @Summary Open a map session
// @Description Verifies Telegram WebApp initData (body or X-Telegram-Init-Data header) and starts the recommendation-to-map pipeline. A plain viewer identity is accepted only when signature checks are disabled.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param X-Telegram-Init-Data header string false "Telegram WebApp initData"
// @Param request body models.CreateSessionRequest true "initData or dev viewer"
// @Success 201 {object} APIResponse{data=models.CreateSessionResponse} "Session created"
// @Failure 400 {object} APIResponse "Malformed body"
// @Failure 401 {object} APIResponse "Missing, invalid or expired initData"
// @Failure 429 {object} APIResponse "Rate limit exceeded"
// @Router /sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.CreateSessionRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	if req.InitData == "" {
		req.InitData = r.Header.Get(InitDataHeader)
	}
	if !validateRequest(w, r, &req) {
		return
	}

	viewer, ok := h.viewerFor(rw, req)
	if !ok {
		return
	}

	s := h.sessions.Create(viewer)
	logging.Ctx(r.Context()).Info().
		Str("session_id", s.ID()).
		Bool("has_handle", viewer.PrimaryHandle != "").
		Msg("session created")

	rw.Created(models.CreateSessionResponse{SessionID: s.ID(), Phase: s.Phase()})
}

func (h *Handler) viewerFor(rw *ResponseWriter, req models.CreateSessionRequest) (models.ViewerIdentity, bool) {
	if req.InitData != "" {
		viewer, err := h.verifier.Verify(req.InitData)
		if err != nil {
			if errors.Is(err, identity.ErrInitDataExpired) {
				rw.Unauthorized("Telegram init data expired")
			} else {
				rw.Unauthorized("Invalid Telegram init data")
			}
			return models.ViewerIdentity{}, false
		}
		return viewer, true
	}
	if req.Viewer != nil && h.allowDevIdentity {
		return models.ViewerIdentity{
			PrimaryHandle: identity.NormalizeHandle(req.Viewer.PrimaryHandle),
			DisplayName:   req.Viewer.DisplayName,
		}, true
	}
	rw.Unauthorized("Telegram init data is required")
	return models.ViewerIdentity{}, false
}

// GetSession returns the session snapshot.
//
// @Summary Get session snapshot
// @Description Returns the phase, viewer coordinate, venues with urgency tier and the open selection.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=session.Snapshot}
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	NewResponseWriter(w, r).Success(s.Snapshot())
}

// DeleteSession closes the session. The manager's close hook disconnects
// its stream.
//
// @Summary Close a session
// @Description Cancels in-flight work, destroys the map and disconnects the session stream.
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204 "Session closed"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id} [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Close(id); err != nil {
		NewResponseWriter(w, r).NotFound("Session not found")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// ReportLocation forwards the device position or a denial.
//
// @Summary Report device location
// @Description One-shot device position or denial for sessions using the client locator. The first report wins.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param report body models.LocationReport true "Coordinate or {denied:true}"
// @Success 202 {object} APIResponse{data=map[string]string} "Report accepted"
// @Failure 400 {object} APIResponse "Validation failed"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 409 {object} APIResponse "Location already reported or not accepted"
// @Router /sessions/{id}/location [post]
func (h *Handler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var report models.LocationReport
	if !decodeAndValidate(w, r, &report) {
		return
	}

	var err error
	if report.Denied {
		err = s.DenyLocation()
	} else {
		err = s.ReportLocation(report.Coordinate())
	}
	if err != nil {
		respondSessionError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Accepted(map[string]interface{}{"phase": s.Phase()})
}

// ActivateMarker handles a marker click and returns the overlay.
//
// @Summary Activate a venue marker
// @Description Selects the marker's event and returns the overlay. A later activation replaces it.
// @Tags Selection
// @Produce json
// @Param id path string true "Session ID"
// @Param markerID path string true "Marker ID"
// @Success 200 {object} APIResponse{data=session.Overlay}
// @Failure 404 {object} APIResponse "Session or marker not found"
// @Failure 409 {object} APIResponse "Session not ready"
// @Router /sessions/{id}/markers/{markerID}/activate [post]
func (h *Handler) ActivateMarker(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	overlay, err := s.Activate(chi.URLParam(r, "markerID"))
	if err != nil {
		respondSessionError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(overlay)
}

// GetSelection returns the open overlay.
//
// @Summary Get the open overlay
// @Tags Selection
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=session.Overlay}
// @Failure 404 {object} APIResponse "Session not found or no venue selected"
// @Router /sessions/{id}/selection [get]
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	overlay, open := s.Selection()
	if !open {
		NewResponseWriter(w, r).NotFound("No venue selected")
		return
	}
	NewResponseWriter(w, r).Success(overlay)
}

// DismissSelection closes the overlay.
//
// @Summary Dismiss the overlay
// @Tags Selection
// @Param id path string true "Session ID"
// @Success 204 "Overlay dismissed"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 409 {object} APIResponse "Session not ready"
// @Router /sessions/{id}/selection [delete]
func (h *Handler) DismissSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Dismiss(); err != nil {
		respondSessionError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// RouteSelection plans a driving route from the viewer to the selected venue.
//
// @Summary Driving route to the selected venue
// @Description Plans a DRIVING route from the viewer coordinate with the Google Directions API.
// @Tags Selection
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=routing.Route}
// @Failure 404 {object} APIResponse "Session not found or no route"
// @Failure 409 {object} APIResponse "Session not ready or nothing selected"
// @Failure 502 {object} APIResponse "Directions service failed"
// @Failure 503 {object} APIResponse "Routing not configured"
// @Router /sessions/{id}/selection/route [get]
func (h *Handler) RouteSelection(w http.ResponseWriter, r *http.Request) {
	if h.planner == nil {
		NewResponseWriter(w, r).ServiceUnavailable("Routing is not configured")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	route, err := s.Route(r.Context(), h.planner)
	if err != nil {
		respondSessionError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(route)
}

// SessionStream upgrades to the session websocket.
//
// @Summary Session stream
// @Description Upgrades to a WebSocket. The first frame is a snapshot; phase, scene and selection frames follow. Accepts marker_click, dismiss, location and ping frames.
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 101 "Switching protocols"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 503 {object} APIResponse "Streaming unavailable"
// @Router /sessions/{id}/ws [get]
func (h *Handler) SessionStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := ws.ServeStream(h.hub, &h.upgrader, w, r, s); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
	}
}

// respondSessionError maps session errors onto status codes.
func respondSessionError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	switch {
	case errors.Is(err, session.ErrSessionClosed):
		rw.NotFound("Session closed")
	case errors.Is(err, session.ErrNotReady):
		rw.Conflict("Session is not ready")
	case errors.Is(err, session.ErrNoSelection):
		rw.Conflict("No venue selected")
	case errors.Is(err, session.ErrLocationNotAccepted):
		rw.Conflict("Session does not accept client location")
	case errors.Is(err, geolocate.ErrAlreadyReported):
		rw.Conflict("Location already reported")
	case errors.Is(err, mapview.ErrUnknownMarker), errors.Is(err, mapview.ErrNoView):
		rw.NotFound("Marker not found")
	case errors.Is(err, routing.ErrNoRoute):
		rw.NotFound("No route to the selected venue")
	default:
		rw.ExternalServiceError("routing", err)
	}
}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/seruen/internal/identity"
	"github.com/tomtom215/seruen/internal/routing"
	"github.com/tomtom215/seruen/internal/session"
	ws "github.com/tomtom215/seruen/internal/websocket"
)

// ReadinessCheck is one dependency probed by /health/ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HandlerDeps wires a Handler.
type HandlerDeps struct {
	Sessions *session.Manager
	Hub      *ws.Hub
	Verifier *identity.Verifier

	// Planner is nil when routing is not configured.
	Planner routing.Planner

	// AllowedOrigins gates websocket upgrades.
	AllowedOrigins []string

	// AllowDevIdentity accepts a plain viewer identity instead of initData.
	AllowDevIdentity bool

	Checks []ReadinessCheck
}

// Handler serves the session API.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and shared helpers
//   - handlers_session.go: session lifecycle, location and selection
//   - handlers_health.go: liveness and readiness
type Handler struct {
	sessions         *session.Manager
	hub              *ws.Hub
	verifier         *identity.Verifier
	planner          routing.Planner
	upgrader         websocket.Upgrader
	allowDevIdentity bool
	checks           []ReadinessCheck
	startTime        time.Time
}

// NewHandler creates a handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		sessions:         deps.Sessions,
		hub:              deps.Hub,
		verifier:         deps.Verifier,
		planner:          deps.Planner,
		upgrader:         ws.NewUpgrader(deps.AllowedOrigins),
		allowDevIdentity: deps.AllowDevIdentity,
		checks:           deps.Checks,
		startTime:        time.Now(),
	}
}

// session resolves the {id} URL parameter. On failure the response has
// been written and ok is false.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		NewResponseWriter(w, r).NotFound("Session not found")
		return nil, false
	}
	return s, true
}

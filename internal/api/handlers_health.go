// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/seruen/internal/logging"
)

const readinessTimeout = 3 * time.Second

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status    string            `json:"status"`
	Uptime    float64           `json:"uptime_seconds"`
	Sessions  int               `json:"sessions,omitempty"`
	WSClients int               `json:"ws_clients,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthLive reports that the process is serving.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Process is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady runs the readiness checks. Any failing check turns the
// answer into a 503 with the per-check results.
//
// @Summary Readiness probe
// @Description Runs every readiness check. Returns 503 with per-check results when any fails.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Ready"
// @Failure 503 {object} APIResponse{error=APIError} "Not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := HealthStatus{
		Status: "ready",
		Uptime: time.Since(h.startTime).Seconds(),
		Checks: make(map[string]string, len(h.checks)),
	}
	if h.sessions != nil {
		status.Sessions = h.sessions.Len()
	}
	if h.hub != nil {
		status.WSClients = h.hub.ClientCount()
	}

	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			status.Status = "not_ready"
			status.Checks[c.Name] = err.Error()
			logging.Ctx(ctx).Warn().Err(err).Str("check", c.Name).Msg("readiness check failed")
			continue
		}
		status.Checks[c.Name] = "ok"
	}

	rw := NewResponseWriter(w, r)
	if status.Status != "ready" {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready", status)
		return
	}
	rw.Success(status)
}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package services

import (
	"context"
	"time"
)

// ContextService is any component with a blocking Serve(ctx) loop, such as
// *websocket.Hub and *session.Manager.
type ContextService interface {
	Serve(ctx context.Context) error
}

// IntervalRunner is a component with a periodic maintenance loop, such as
// the geocode memory cache janitor and the badger value log GC.
type IntervalRunner func(ctx context.Context, interval time.Duration) error

// LoopService gives a blocking loop a name for supervisor logs.
type LoopService struct {
	run  func(ctx context.Context) error
	name string
}

// Serve implements suture.Service.
func (l *LoopService) Serve(ctx context.Context) error {
	return l.run(ctx)
}

// String names the service in supervisor logs.
func (l *LoopService) String() string {
	return l.name
}

// NewWebSocketHubService supervises the session event hub.
func NewWebSocketHubService(hub ContextService) *LoopService {
	return &LoopService{run: hub.Serve, name: "websocket-hub"}
}

// NewSessionReaperService supervises the idle session reaper.
func NewSessionReaperService(manager ContextService) *LoopService {
	return &LoopService{run: manager.Serve, name: "session-reaper"}
}

// NewIntervalService supervises run, called with a fixed interval.
func NewIntervalService(name string, interval time.Duration, run IntervalRunner) *LoopService {
	return &LoopService{
		run: func(ctx context.Context) error {
			return run(ctx, interval)
		},
		name: name,
	}
}

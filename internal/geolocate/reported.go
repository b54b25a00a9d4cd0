// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geolocate

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/seruen/internal/models"
)

// Reported waits for the mini-app to report the device position. The first
// report, a coordinate or a denial, wins.
type Reported struct {
	timeout time.Duration

	mu       sync.Mutex
	done     chan struct{}
	coord    models.Coordinate
	err      error
	reported bool
}

// NewReported creates a locator that gives up after timeout. Zero waits
// until the caller's context ends.
func NewReported(timeout time.Duration) *Reported {
	return &Reported{timeout: timeout, done: make(chan struct{})}
}

// Report delivers the device coordinate.
func (r *Reported) Report(c models.Coordinate) error {
	return r.settle(c, nil)
}

// Deny records that the device refused location access.
func (r *Reported) Deny() error {
	return r.settle(models.Coordinate{}, ErrPermissionDenied)
}

func (r *Reported) settle(c models.Coordinate, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reported {
		return ErrAlreadyReported
	}
	r.reported = true
	r.coord, r.err = c, err
	close(r.done)
	return nil
}

// Locate blocks until a report arrives, the timeout passes or ctx ends.
func (r *Reported) Locate(ctx context.Context) (models.Coordinate, error) {
	var timeout <-chan time.Time
	if r.timeout > 0 {
		t := time.NewTimer(r.timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.coord, r.err
	case <-timeout:
		return models.Coordinate{}, ErrUnavailable
	case <-ctx.Done():
		return models.Coordinate{}, ctx.Err()
	}
}

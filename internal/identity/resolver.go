// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/models"
	"github.com/tomtom215/seruen/internal/recommend"
)

var (
	// ErrNoIdentity means neither a handle nor a display name was available.
	ErrNoIdentity = errors.New("no viewer identifier available")

	// ErrNotFound means every candidate identifier was unknown to the backend.
	ErrNotFound = errors.New("viewer not found")

	// ErrLookupFailed wraps a backend failure. It is not an identity error.
	ErrLookupFailed = errors.New("recommendation lookup failed")
)

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	// Identifier is the value the backend recognised.
	Identifier string

	// UsedFallback is true when the display name was used after the handle missed.
	UsedFallback bool

	// Records may be empty; an empty list is still a successful resolution.
	Records []models.RecommendationRecord
}

// Resolver looks a viewer up with at most one fallback.
type Resolver struct {
	lookup recommend.Lookup
}

// NewResolver creates a resolver over lookup.
func NewResolver(lookup recommend.Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// IsIdentityError reports whether err should end a session in identity_error
// rather than failed.
func IsIdentityError(err error) bool {
	return errors.Is(err, ErrNoIdentity) || errors.Is(err, ErrNotFound)
}

// Resolve finds the viewer's recommendations.
func (r *Resolver) Resolve(ctx context.Context, viewer models.ViewerIdentity) (Resolution, error) {
	candidates := candidates(viewer)
	if len(candidates) == 0 {
		return Resolution{}, ErrNoIdentity
	}

	for i, id := range candidates {
		res := r.lookup.Lookup(ctx, id)
		switch res.Outcome {
		case recommend.OutcomeFound:
			return Resolution{Identifier: id, UsedFallback: i > 0, Records: res.Records}, nil
		case recommend.OutcomeNotFound:
			if i+1 < len(candidates) {
				logging.Ctx(ctx).Debug().Msg("primary handle unknown, retrying with display name")
			}
			continue
		default:
			err := res.Err
			if err == nil {
				err = errors.New("unknown lookup failure")
			}
			return Resolution{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
		}
	}
	return Resolution{}, ErrNotFound
}

// candidates returns the handle then the display name, skipping blanks.
func candidates(v models.ViewerIdentity) []string {
	out := make([]string, 0, 2)
	if h := NormalizeHandle(v.PrimaryHandle); h != "" {
		out = append(out, h)
	}
	if d := strings.TrimSpace(v.DisplayName); d != "" {
		out = append(out, d)
	}
	return out
}

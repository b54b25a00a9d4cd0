// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package recommend

import (
	"context"

	"github.com/tomtom215/seruen/internal/models"
)

// Outcome tags a lookup Result.
type Outcome int

const (
	// OutcomeError means the lookup failed and the session cannot continue.
	OutcomeError Outcome = iota
	// OutcomeFound carries the records, possibly none.
	OutcomeFound
	// OutcomeNotFound means the identifier is unknown.
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// Result is the outcome of one recommendation lookup.
type Result struct {
	Outcome Outcome
	Records []models.RecommendationRecord
	Err     error
}

// Found returns a successful result. A nil slice is normalised to empty.
func Found(records []models.RecommendationRecord) Result {
	if records == nil {
		records = []models.RecommendationRecord{}
	}
	return Result{Outcome: OutcomeFound, Records: records}
}

// NotFound returns the not-found result.
func NotFound() Result {
	return Result{Outcome: OutcomeNotFound}
}

// Failed returns an error result.
func Failed(err error) Result {
	return Result{Outcome: OutcomeError, Err: err}
}

// Lookup fetches recommendations for one identifier.
type Lookup interface {
	Lookup(ctx context.Context, identifier string) Result
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, identifier string) Result

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, identifier string) Result {
	return f(ctx, identifier)
}

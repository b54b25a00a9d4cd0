// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/seruen/internal/models"
	"github.com/tomtom215/seruen/internal/recommend"
)

// fakeLookup answers from a table and records every identifier asked for.
type fakeLookup struct {
	mu      sync.Mutex
	answers map[string]recommend.Result
	calls   []string
}

func (f *fakeLookup) Lookup(_ context.Context, id string) recommend.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if r, ok := f.answers[id]; ok {
		return r
	}
	return recommend.NotFound()
}

func TestResolve(t *testing.T) {
	t.Parallel()

	recs := []models.RecommendationRecord{{Title: "Gig", Venue: "Somewhere", Date: "2026-05-01"}}
	backendErr := errors.New("connection refused")

	tests := []struct {
		name         string
		viewer       models.ViewerIdentity
		answers      map[string]recommend.Result
		wantCalls    []string
		wantErr      error
		wantID       string
		wantFallback bool
		wantRecords  int
	}{
		{
			name:      "no identity",
			viewer:    models.ViewerIdentity{PrimaryHandle: "  ", DisplayName: ""},
			wantCalls: nil,
			wantErr:   ErrNoIdentity,
		},
		{
			name:        "handle found",
			viewer:      models.ViewerIdentity{PrimaryHandle: "alice", DisplayName: "Alice Smith"},
			answers:     map[string]recommend.Result{"alice": recommend.Found(recs)},
			wantCalls:   []string{"alice"},
			wantID:      "alice",
			wantRecords: 1,
		},
		{
			name:         "fallback to display name with empty list",
			viewer:       models.ViewerIdentity{PrimaryHandle: "alice", DisplayName: "Alice Smith"},
			answers:      map[string]recommend.Result{"Alice Smith": recommend.Found(nil)},
			wantCalls:    []string{"alice", "Alice Smith"},
			wantID:       "Alice Smith",
			wantFallback: true,
		},
		{
			name:      "fallback exhausted",
			viewer:    models.ViewerIdentity{PrimaryHandle: "alice", DisplayName: "Alice Smith"},
			wantCalls: []string{"alice", "Alice Smith"},
			wantErr:   ErrNotFound,
		},
		{
			name:      "not found without display name",
			viewer:    models.ViewerIdentity{PrimaryHandle: "alice"},
			wantCalls: []string{"alice"},
			wantErr:   ErrNotFound,
		},
		{
			name:        "display name only",
			viewer:      models.ViewerIdentity{DisplayName: "Alice Smith"},
			answers:     map[string]recommend.Result{"Alice Smith": recommend.Found(recs)},
			wantCalls:   []string{"Alice Smith"},
			wantID:      "Alice Smith",
			wantRecords: 1,
		},
		{
			name:      "backend error is not retried",
			viewer:    models.ViewerIdentity{PrimaryHandle: "alice", DisplayName: "Alice Smith"},
			answers:   map[string]recommend.Result{"alice": recommend.Failed(backendErr)},
			wantCalls: []string{"alice"},
			wantErr:   ErrLookupFailed,
		},
		{
			name:      "handle is normalized",
			viewer:    models.ViewerIdentity{PrimaryHandle: "@alice"},
			answers:   map[string]recommend.Result{"alice": recommend.Found(nil)},
			wantCalls: []string{"alice"},
			wantID:    "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := &fakeLookup{answers: tt.answers}
			res, err := NewResolver(fake).Resolve(context.Background(), tt.viewer)

			if len(fake.calls) != len(tt.wantCalls) {
				t.Fatalf("calls = %q, want %q", fake.calls, tt.wantCalls)
			}
			for i := range tt.wantCalls {
				if fake.calls[i] != tt.wantCalls[i] {
					t.Errorf("call %d = %q, want %q", i, fake.calls[i], tt.wantCalls[i])
				}
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if res.Identifier != tt.wantID || res.UsedFallback != tt.wantFallback || len(res.Records) != tt.wantRecords {
				t.Errorf("Resolve() = %+v", res)
			}
		})
	}
}

func TestResolveBackendErrorKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	fake := &fakeLookup{answers: map[string]recommend.Result{"bob": recommend.Failed(cause)}}
	_, err := NewResolver(fake).Resolve(context.Background(), models.ViewerIdentity{PrimaryHandle: "bob"})
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap cause", err)
	}
	if IsIdentityError(err) {
		t.Error("backend failure classified as identity error")
	}
}

func TestIsIdentityError(t *testing.T) {
	t.Parallel()

	if !IsIdentityError(ErrNoIdentity) || !IsIdentityError(ErrNotFound) {
		t.Error("identity sentinels not classified")
	}
	if IsIdentityError(errors.New("other")) || IsIdentityError(nil) {
		t.Error("unrelated error classified as identity error")
	}
}

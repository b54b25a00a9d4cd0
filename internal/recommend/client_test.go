// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package recommend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/seruen/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(config.BackendConfig{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second, MaxRetries: 2})
	c.retryBaseDelay = time.Millisecond
	return c
}

func TestLookupFound(t *testing.T) {
	t.Parallel()

	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"title":"Jazz Night","venue":"Hot Clube, Lisboa","date":"2026-05-02T21:00:00Z","ticketLink":"https://tickets.example/jazz"},
			{"title":"Fado","venue":"Clube de Fado","date":"2026-05-03T22:00:00Z","ticketLink":"javascript:alert(1)"}
		]`))
	})

	res := c.Lookup(context.Background(), "alice")
	if res.Outcome != OutcomeFound {
		t.Fatalf("Outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if gotPath != "/api/users/alice/recommendations" {
		t.Errorf("path = %q", gotPath)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if res.Records[0].TicketLink != "https://tickets.example/jazz" {
		t.Errorf("valid ticket link changed: %q", res.Records[0].TicketLink)
	}
	if res.Records[1].TicketLink != "" {
		t.Errorf("unsafe ticket link kept: %q", res.Records[1].TicketLink)
	}
}

func TestLookupEmptyListIsFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	res := c.Lookup(context.Background(), "bob")
	if res.Outcome != OutcomeFound || res.Err != nil {
		t.Fatalf("Outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if res.Records == nil || len(res.Records) != 0 {
		t.Errorf("Records = %#v, want empty non-nil", res.Records)
	}
}

func TestLookupEscapesIdentifier(t *testing.T) {
	t.Parallel()

	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	})

	c.Lookup(context.Background(), "Alice Smith/../x")
	if gotPath != "/api/users/Alice%20Smith%2F..%2Fx/recommendations" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such user", http.StatusNotFound)
	})

	res := c.Lookup(context.Background(), "ghost")
	if res.Outcome != OutcomeNotFound || res.Err != nil {
		t.Errorf("Outcome = %v, err = %v", res.Outcome, res.Err)
	}
}

func TestLookupErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) || se.StatusCode != 500 {
					t.Errorf("err = %v, want StatusError 500", err)
				}
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"`))
			},
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Error("expected decode error")
				}
			},
		},
		{
			name: "rate limited forever",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrRateLimited) {
					t.Errorf("err = %v, want ErrRateLimited", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, tt.handler)
			res := c.Lookup(context.Background(), "alice")
			if res.Outcome != OutcomeError {
				t.Fatalf("Outcome = %v, want error", res.Outcome)
			}
			tt.check(t, res.Err)
		})
	}
}

func TestLookupTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.BackendConfig{BaseURL: url, Timeout: time.Second})
	res := c.Lookup(context.Background(), "alice")
	if res.Outcome != OutcomeError || res.Err == nil {
		t.Errorf("Outcome = %v, err = %v", res.Outcome, res.Err)
	}
}

func TestLookupRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[{"title":"t","venue":"v","date":"2026-01-01","ticketLink":""}]`))
	})

	res := c.Lookup(context.Background(), "alice")
	if res.Outcome != OutcomeFound || len(res.Records) != 1 {
		t.Fatalf("Outcome = %v, records = %d, err = %v", res.Outcome, len(res.Records), res.Err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestLookupCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := c.Lookup(ctx, "alice")
	if res.Outcome != OutcomeError || !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("Outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("lookup ignored context cancellation")
	}
}

func TestLookupBreakerRejection(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	})

	for i := 0; i < 12; i++ {
		c.Lookup(context.Background(), "alice")
	}
	before := calls.Load()

	res := c.Lookup(context.Background(), "alice")
	if res.Outcome != OutcomeError || res.Err == nil {
		t.Fatalf("Outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if calls.Load() != before {
		t.Error("request reached the backend while the breaker was open")
	}
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	for i := 0; i < 30; i++ {
		if res := c.Lookup(context.Background(), "ghost"); res.Outcome != OutcomeNotFound {
			t.Fatalf("lookup %d: Outcome = %v, err = %v", i, res.Outcome, res.Err)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	t.Parallel()

	if r := Found(nil); r.Outcome != OutcomeFound || r.Records == nil {
		t.Errorf("Found(nil) = %+v", r)
	}
	if r := NotFound(); r.Outcome != OutcomeNotFound {
		t.Errorf("NotFound() = %+v", r)
	}
	err := errors.New("x")
	if r := Failed(err); r.Outcome != OutcomeError || r.Err != err {
		t.Errorf("Failed() = %+v", r)
	}
	if OutcomeFound.String() != "found" || OutcomeNotFound.String() != "not_found" || OutcomeError.String() != "error" {
		t.Error("Outcome.String mismatch")
	}
}

func TestReadyTracksBreaker(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if err := c.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() before failures = %v", err)
	}
	for i := 0; i < 12; i++ {
		c.Lookup(context.Background(), "alice")
	}
	if err := c.Ready(context.Background()); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Ready() after failures = %v, want ErrBackendUnavailable", err)
	}
}

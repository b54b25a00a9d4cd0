// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/seruen/internal/circuitbreaker"
	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/models"
	"github.com/tomtom215/seruen/internal/validation"
)

const (
	maxErrorBodySize = 64 * 1024
	maxBodySize      = 8 << 20
)

// ErrRateLimited is returned when the backend keeps answering 429.
var ErrRateLimited = errors.New("recommendation backend rate limit exceeded")

// StatusError is a non-200, non-404 backend answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("recommendation backend returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the recommendation backend.
type Client struct {
	baseURL        string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
	breaker        *circuitbreaker.Breaker[Result]
}

// NewClient creates a backend client with its own circuit breaker.
func NewClient(cfg config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		client:         &http.Client{Timeout: timeout},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
		breaker: circuitbreaker.New[Result]("recommendation-backend", circuitbreaker.Settings{
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// ErrBackendUnavailable is reported by Ready while the circuit is open.
var ErrBackendUnavailable = errors.New("recommendation backend circuit open")

// Ready reports whether lookups are currently let through.
func (c *Client) Ready(context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return ErrBackendUnavailable
	}
	return nil
}

// Lookup fetches recommendations for identifier. It never returns a Go
// error: every failure is folded into an Error result.
func (c *Client) Lookup(ctx context.Context, identifier string) Result {
	start := time.Now()

	res, err := c.breaker.Execute(func() (Result, error) {
		r := c.fetch(ctx, identifier)
		return r, r.Err
	})
	if err != nil && circuitbreaker.IsRejected(err) {
		res = Failed(fmt.Errorf("recommendation backend unavailable: %w", err))
	}

	metrics.RecordBackendLookup(res.Outcome.String(), time.Since(start))

	ev := logging.Ctx(ctx).Debug().
		Str("identifier", identifier).
		Str("outcome", res.Outcome.String()).
		Dur("duration", time.Since(start))
	if res.Outcome == OutcomeFound {
		ev = ev.Int("records", len(res.Records))
	}
	if res.Err != nil {
		ev = ev.Err(res.Err)
	}
	ev.Msg("recommendation lookup")

	return res
}

func (c *Client) fetch(ctx context.Context, identifier string) Result {
	reqURL := c.baseURL + "/users/" + url.PathEscape(identifier) + "/recommendations"

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return Failed(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
		return NotFound()
	default:
		return Failed(&StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		})
	}

	var records []models.RecommendationRecord
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&records); err != nil {
		return Failed(fmt.Errorf("failed to decode recommendations: %w", err))
	}
	return Found(sanitizeRecords(ctx, records))
}

// doRequestWithRateLimit retries HTTP 429 with exponential backoff
// (base, 2*base, 4*base...) or the server's Retry-After when given.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if id := logging.RequestIDFromContext(ctx); id != "" {
			req.Header.Set("X-Request-ID", id)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w after %d retries", ErrRateLimited, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}
		metrics.RecordBackendRetry()

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// sanitizeRecords blanks ticket links that are not http(s) URLs.
func sanitizeRecords(ctx context.Context, records []models.RecommendationRecord) []models.RecommendationRecord {
	for i := range records {
		verr := validation.ValidateStruct(&records[i])
		if verr == nil || !verr.HasField("ticketLink") {
			continue
		}
		logging.Ctx(ctx).Debug().
			Str("title", records[i].Title).
			Str("ticket_link", records[i].TicketLink).
			Msg("dropping non-http ticket link")
		records[i].TicketLink = ""
	}
	return records
}

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

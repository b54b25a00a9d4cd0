// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/seruen/internal/cache"
	"github.com/tomtom215/seruen/internal/circuitbreaker"
	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/models"
)

// Resolver is the single operation the venue engine needs.
type Resolver interface {
	ResolveAddress(ctx context.Context, venue string) *models.Coordinate
}

// Options tunes a Service.
type Options struct {
	// PerCallTimeout bounds each provider call. Zero means no extra bound.
	PerCallTimeout time.Duration

	// CacheTTL applies to both cache tiers. Zero uses 24h.
	CacheTTL time.Duration

	// Store is the optional persistent tier.
	Store *Store
}

type guardedProvider struct {
	provider Provider
	breaker  *circuitbreaker.Breaker[models.Coordinate]
}

// Service resolves addresses through the cache tiers and providers.
type Service struct {
	providers []guardedProvider
	memory    *cache.Cache[models.Coordinate]
	store     *Store
	timeout   time.Duration
	ttl       time.Duration
}

// NewService creates a service trying providers in the given order.
func NewService(providers []Provider, opts Options) *Service {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := &Service{
		memory:  cache.NewNamed[models.Coordinate]("geocode", ttl),
		store:   opts.Store,
		timeout: opts.PerCallTimeout,
		ttl:     ttl,
	}
	for _, p := range providers {
		s.providers = append(s.providers, guardedProvider{
			provider: p,
			breaker: circuitbreaker.New[models.Coordinate]("geocode-"+p.Name(), circuitbreaker.Settings{
				IsSuccessful: func(err error) bool {
					return err == nil || errors.Is(err, ErrNoResult) || errors.Is(err, context.Canceled)
				},
			}),
		})
	}
	return s
}

// NewFromConfig builds the providers named in cfg.Providers.
func NewFromConfig(cfg config.GeocodeConfig, store *Store) (*Service, error) {
	providers := make([]Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch name {
		case config.ProviderGoogle:
			p, err := NewGoogleProvider(cfg.GoogleAPIKey, cfg.GoogleBaseURL)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		case config.ProviderNominatim:
			providers = append(providers, NewNominatimProvider(cfg.NominatimServer, cfg.NominatimRate))
		default:
			return nil, fmt.Errorf("unknown geocode provider %q", name)
		}
	}
	return NewService(providers, Options{
		PerCallTimeout: cfg.PerCallTimeout,
		CacheTTL:       cfg.CacheTTL,
		Store:          store,
	}), nil
}

// Memory exposes the in-memory tier so its janitor can be supervised.
func (s *Service) Memory() *cache.Cache[models.Coordinate] {
	return s.memory
}

// ResolveAddress returns the coordinate for venue, or nil.
func (s *Service) ResolveAddress(ctx context.Context, venue string) *models.Coordinate {
	venue = strings.TrimSpace(venue)
	if venue == "" {
		return nil
	}
	log := logging.Ctx(ctx).With().Str("venue", venue).Logger()

	if c, ok := s.memory.Get(venue); ok {
		return &c
	}
	if s.store != nil {
		c, ok, err := s.store.Get(venue)
		if err != nil {
			log.Debug().Err(err).Msg("geocode store read failed")
		}
		if ok {
			s.memory.Set(venue, c)
			return &c
		}
	}

	for _, gp := range s.providers {
		c, err := s.call(ctx, gp, venue)
		if err != nil {
			log.Debug().Err(err).Str("provider", gp.provider.Name()).Msg("geocode miss")
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		s.remember(venue, c)
		return &c
	}
	return nil
}

func (s *Service) call(ctx context.Context, gp guardedProvider, venue string) (models.Coordinate, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	c, err := gp.breaker.Execute(func() (models.Coordinate, error) {
		return gp.provider.Geocode(ctx, venue)
	})
	metrics.RecordGeocode(gp.provider.Name(), outcomeLabel(err), time.Since(start))
	return c, err
}

func (s *Service) remember(venue string, c models.Coordinate) {
	s.memory.Set(venue, c)
	if s.store == nil {
		return
	}
	if err := s.store.Put(venue, c, s.ttl); err != nil {
		logging.Debug().Err(err).Str("venue", venue).Msg("geocode store write failed")
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoResult):
		return "no_result"
	case circuitbreaker.IsRejected(err):
		return "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

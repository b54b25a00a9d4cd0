// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package main

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tomtom215/seruen/internal/api"
	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/geocode"
	"github.com/tomtom215/seruen/internal/geolocate"
	"github.com/tomtom215/seruen/internal/identity"
	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/mapview"
	"github.com/tomtom215/seruen/internal/recommend"
	"github.com/tomtom215/seruen/internal/routing"
	"github.com/tomtom215/seruen/internal/session"
	"github.com/tomtom215/seruen/internal/supervisor"
	"github.com/tomtom215/seruen/internal/supervisor/services"
	"github.com/tomtom215/seruen/internal/venues"
	ws "github.com/tomtom215/seruen/internal/websocket"
)

const (
	cacheJanitorInterval = time.Minute
	storeGCInterval      = 10 * time.Minute
)

// app holds the wired components of one server process.
type app struct {
	cfg      *config.Config
	store    *geocode.Store
	geocoder *geocode.Service
	backend  *recommend.Client
	hub      *ws.Hub
	sessions *session.Manager
	server   *http.Server

	// listener overrides server.Addr when set.
	listener net.Listener
}

// newApp builds every component from cfg. Close releases the badger store.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Geocode.CacheDir != "" {
		store, err := geocode.OpenStore(cfg.Geocode.CacheDir)
		if err != nil {
			return nil, err
		}
		a.store = store
		logging.Info().Str("dir", cfg.Geocode.CacheDir).Msg("persistent geocode cache enabled")
	}

	geocoder, err := geocode.NewFromConfig(cfg.Geocode, a.store)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("geocoder: %w", err)
	}
	a.geocoder = geocoder

	locators, err := geolocate.NewFactory(cfg.Geolocation)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("geolocation: %w", err)
	}

	var planner routing.Planner
	if cfg.Geocode.GoogleAPIKey != "" {
		directions, err := routing.NewDirections(cfg.Geocode.GoogleAPIKey, cfg.Geocode.GoogleBaseURL, cfg.Geocode.PerCallTimeout)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("routing: %w", err)
		}
		planner = directions
	} else {
		logging.Info().Msg("no Google Maps API key, driving routes disabled")
	}

	a.backend = recommend.NewClient(cfg.Backend)
	a.hub = ws.NewHub()
	a.sessions = session.NewManager(session.ManagerConfig{
		Identity:     identity.NewResolver(a.backend),
		Venues:       venues.NewEngine(geocoder, cfg.Geocode.MaxConcurrency),
		Locators:     locators,
		Map:          mapview.OptionsFromConfig(cfg.Map),
		Notifier:     a.hub,
		TTL:          cfg.Session.TTL,
		ReapInterval: cfg.Session.ReapInterval,
		OnClose:      a.hub.CloseSession,
	})

	handler := api.NewHandler(api.HandlerDeps{
		Sessions:         a.sessions,
		Hub:              a.hub,
		Verifier:         identity.NewVerifier(cfg.Telegram),
		Planner:          planner,
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowDevIdentity: cfg.Telegram.InsecureSkipVerify,
		Checks: []api.ReadinessCheck{
			{Name: "recommendation_backend", Check: a.backend.Ready},
		},
	})
	router := api.NewRouter(handler, api.ChiMiddlewareFromConfig(cfg.Security))

	a.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
		// No WriteTimeout: WebSocket connections are long-lived and the
		// write pump sets its own deadlines.
	}
	return a, nil
}

// supervise adds every long-running service to tree.
func (a *app) supervise(tree *supervisor.SupervisorTree) {
	tree.AddDataService(services.NewIntervalService("geocode-cache-janitor", cacheJanitorInterval, a.geocoder.Memory().Run))
	if a.store != nil {
		tree.AddDataService(services.NewIntervalService("geocode-store-gc", storeGCInterval, a.store.RunGCLoop))
	}

	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
	tree.AddMessagingService(services.NewSessionReaperService(a.sessions))

	opts := []services.HTTPServerOption{services.WithDrain(a.hub.CloseAll)}
	if a.listener != nil {
		opts = append(opts, services.WithListener(a.listener))
	}
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout, opts...))
}

// Close releases resources that outlive the supervisor tree.
func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logging.Error().Err(err).Msg("error closing geocode store")
	}
}

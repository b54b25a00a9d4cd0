// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tomtom215/seruen/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
	RegisterOnShutdown(f func())
}

// HTTPServerOption configures an HTTPServerService.
type HTTPServerOption func(*HTTPServerService)

// WithListener serves on ln instead of the server's Addr. The listener is
// closed by Shutdown, so the service cannot be restarted on it.
func WithListener(ln net.Listener) HTTPServerOption {
	return func(h *HTTPServerService) { h.listener = ln }
}

// WithDrain runs fn when shutdown begins. Shutdown does not wait for
// hijacked connections, so session streams are closed here.
func WithDrain(fn func()) HTTPServerOption {
	return func(h *HTTPServerService) { h.drains = append(h.drains, fn) }
}

// HTTPServerService runs the API server under suture.
type HTTPServerService struct {
	server          HTTPServer
	listener        net.Listener
	drains          []func()
	shutdownTimeout time.Duration
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout means 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration, opts ...HTTPServerOption) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	h := &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout}
	for _, opt := range opts {
		opt(h)
	}
	for _, fn := range h.drains {
		server.RegisterOnShutdown(fn)
	}
	return h
}

func (h *HTTPServerService) listen() error {
	if h.listener != nil {
		logging.Info().Str("addr", h.listener.Addr().String()).Msg("http server listening")
		return h.server.Serve(h.listener)
	}
	logging.Info().Msg("http server starting")
	return h.server.ListenAndServe()
}

// Serve implements suture.Service. It returns ctx.Err() after a clean
// shutdown and wraps any listen or shutdown failure.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		err := h.listen()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		start := time.Now()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		logging.Info().Dur("drain", time.Since(start)).Msg("http server stopped")
		return ctx.Err()
	}
}

// String names the service in supervisor logs.
func (h *HTTPServerService) String() string {
	return "http-server"
}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package logging provides the process-wide zerolog logger for Seruen.
//
// Every component logs through this package so that output format, level and
// field names are consistent:
//
//   - JSON output for production, console output for development
//   - request_id and correlation_id propagated through context.Context
//   - component loggers via WithComponent
//   - an slog.Handler adapter for libraries that only speak log/slog (sutureslog)
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("session_id", id).Msg("session opened")
//	logging.Ctx(ctx).Warn().Err(err).Msg("geocode failed")
//
// Always terminate an event chain with Msg or Send; an unterminated chain is
// never written.
package logging

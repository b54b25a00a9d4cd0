// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package services adapts Seruen's blocking components to suture.Service.
//
// Every wrapper implements fmt.Stringer so supervisor events name the
// service. Serve returns ctx.Err() on a normal stop and a wrapped error on
// failure, which tells suture to restart it.
//
//	HTTPServerService   net/http server with graceful shutdown
//	LoopService         websocket hub, session reaper and interval loops
//
// Interval loops are built from method values:
//
//	services.NewIntervalService("geocode-cache-janitor", time.Minute, geo.Memory().Run)
//	services.NewIntervalService("geocode-store-gc", 10*time.Minute, store.RunGCLoop)
package services

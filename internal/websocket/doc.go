// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package websocket streams map session updates to the Telegram mini-app.

It uses gorilla/websocket with the hub and client layout:

	          ┌──────────┐
	session → │   Hub    │ → clients of that session only
	          └────┬─────┘
	     ┌─────────┼─────────┐
	  Client1   Client2   Client3

Each client belongs to one session. The hub implements session.Notifier,
so phase, scene and selection events raised by a session go only to the
clients watching it.

Outbound frames:

  - snapshot: sent once on connect with the session snapshot and scene
  - phase, scene, selection: session events
  - pong, error: replies to inbound frames

Inbound frames:

  - ping
  - marker_click {"marker_id": "venue-0"}
  - dismiss
  - location {"lat": 38.7, "lng": -9.1} or {"denied": true}

Each client runs a readPump and a writePump goroutine. The write deadline
is 10 seconds, pings go out every 54 seconds, and a connection that sends
no pong for 60 seconds is dropped. Clients whose buffer fills up are
disconnected rather than allowed to block delivery.

Hub.Serve implements suture.Service.
*/
package websocket

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package websocket

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/mapview"
	"github.com/tomtom215/seruen/internal/session"
)

// Stream is a session that can be watched over a websocket.
type Stream interface {
	Controller
	ID() string
	Snapshot() session.Snapshot
	Scene() mapview.Scene
}

// SnapshotData is sent once when a client connects so it can catch up.
type SnapshotData struct {
	Session session.Snapshot `json:"session"`
	Scene   mapview.Scene    `json:"scene"`
}

// NewUpgrader returns an upgrader that accepts the given origins. "*"
// accepts any origin; a missing Origin header is always rejected.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowedOrigins)
		},
	}
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		logging.Warn().Msg("websocket connection rejected: missing Origin header")
		return false
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("websocket connection rejected from unauthorized origin")
	return false
}

// sanitizeLogValue strips control characters and bounds the length.
func sanitizeLogValue(s string) string {
	const maxLen = 200
	b := strings.Builder{}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
		if b.Len() >= maxLen {
			break
		}
	}
	return b.String()
}

// ServeStream upgrades the request and attaches a client to the stream.
// The upgrader has already written an HTTP error when err is non-nil.
func ServeStream(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, stream Stream) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := NewClient(hub, conn, stream.ID(), stream)
	hub.Attach(client, func() Message {
		return Message{
			Type: MessageTypeSnapshot,
			Data: SnapshotData{Session: stream.Snapshot(), Scene: stream.Scene()},
		}
	})
	client.Start()
	return nil
}

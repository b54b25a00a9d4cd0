// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package websocket

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/models"
	"github.com/tomtom215/seruen/internal/session"
	"github.com/tomtom215/seruen/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// clientIDCounter gives clients a stable delivery order.
var clientIDCounter atomic.Uint64

// Controller is the part of a session a client may drive.
type Controller interface {
	Activate(markerID string) (session.Overlay, error)
	Dismiss() error
	ReportLocation(c models.Coordinate) error
	DenyLocation() error

	// Touch marks the session used so an open stream is not reaped.
	Touch()
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	id        uint64
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	control   Controller
	send      chan Message

	// after is the last delivery queued before this client's snapshot.
	// Guarded by the hub's mutex.
	after uint64
}

// NewClient creates a client bound to one session.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, control Controller) *Client {
	return &Client{
		id:        clientIDCounter.Add(1),
		sessionID: sessionID,
		hub:       hub,
		conn:      conn,
		control:   control,
		send:      make(chan Message, 64),
	}
}

// ID returns the client's delivery order key.
func (c *Client) ID() uint64 {
	return c.id
}

// SessionID returns the session the client watches.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Queue sends msg to this client only. It reports false when the client
// is disconnected or its buffer is full.
func (c *Client) Queue(msg Message) bool {
	return c.hub.sendTo(c, msg)
}

type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		c.control.Touch()
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.RecordWSError("read")
				logging.Warn().Err(err).Str("session_id", c.sessionID).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.RecordWSMessage(false)
		c.control.Touch()

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(Message{Type: MessageTypeError, Data: ErrorData{Code: "BAD_REQUEST", Message: "malformed message"}})
			continue
		}
		if reply, ok := c.handle(msg); ok {
			c.reply(reply)
		}
	}
}

// handle applies one inbound message and returns an optional reply.
func (c *Client) handle(msg inbound) (Message, bool) {
	switch msg.Type {
	case MessageTypePing:
		return Message{Type: MessageTypePong}, true

	case MessageTypeMarkerClick:
		var click models.MarkerClick
		if err := decodeAndValidate(msg.Data, &click); err != nil {
			return errorMessage(err), true
		}
		// The overlay itself arrives as a selection event.
		if _, err := c.control.Activate(click.MarkerID); err != nil {
			return errorMessage(err), true
		}

	case MessageTypeDismiss:
		if err := c.control.Dismiss(); err != nil {
			return errorMessage(err), true
		}

	case MessageTypeLocation:
		var report models.LocationReport
		if err := decodeAndValidate(msg.Data, &report); err != nil {
			return errorMessage(err), true
		}
		var err error
		if report.Denied {
			err = c.control.DenyLocation()
		} else {
			err = c.control.ReportLocation(report.Coordinate())
		}
		if err != nil {
			return errorMessage(err), true
		}

	default:
		return Message{Type: MessageTypeError, Data: ErrorData{Code: "BAD_REQUEST", Message: "unknown message type " + msg.Type}}, true
	}
	return Message{}, false
}

var errEmptyPayload = errors.New("missing data")

func decodeAndValidate(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errEmptyPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return err
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}

// errorMessage maps session errors onto the API error codes.
func errorMessage(err error) Message {
	code := "BAD_REQUEST"
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		code = "VALIDATION_FAILED"
	case errors.Is(err, session.ErrSessionClosed):
		code = "NOT_FOUND"
	case errors.Is(err, session.ErrNotReady), errors.Is(err, session.ErrLocationNotAccepted):
		code = "CONFLICT"
	}
	return Message{Type: MessageTypeError, Data: ErrorData{Code: code, Message: err.Error()}}
}

func (c *Client) reply(msg Message) {
	if !c.Queue(msg) {
		metrics.RecordWSError("reply_dropped")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := MarshalMessage(message)
			if err != nil {
				metrics.RecordWSError("encode")
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.RecordWSError("write")
				return
			}
			metrics.RecordWSMessage(true)

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

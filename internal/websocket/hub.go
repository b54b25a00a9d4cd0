// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package websocket

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/metrics"
	"github.com/tomtom215/seruen/internal/session"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal SIGTERM path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Outbound message types. Phase, scene and selection mirror session events.
const (
	MessageTypePhase     = string(session.EventPhase)
	MessageTypeScene     = string(session.EventScene)
	MessageTypeSelection = string(session.EventSelection)
	MessageTypeSnapshot  = "snapshot"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"
)

// Inbound message types.
const (
	MessageTypePing        = "ping"
	MessageTypeMarkerClick = "marker_click"
	MessageTypeDismiss     = "dismiss"
	MessageTypeLocation    = "location"
)

// Message is an outbound frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ErrorData is the payload of an error frame.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type delivery struct {
	seq       uint64
	sessionID string
	message   Message
}

// Hub tracks the clients of every session and routes session events to them.
type Hub struct {
	clients    map[*Client]bool
	bySession  map[string]map[*Client]bool
	broadcast  chan delivery
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// seq numbers deliveries as they are queued.
	seq atomic.Uint64
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		bySession:  make(map[string]map[*Client]bool),
		broadcast:  make(chan delivery, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Serve runs the hub until ctx is done. It implements suture.Service.
//
// Lifecycle events are drained before deliveries so that a client
// registered ahead of an event always receives it.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client, nil)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client, nil)
		case client := <-h.Unregister:
			h.unregister(client)
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

// Attach registers c and queues the message built by first in one step.
// Deliveries already queued when first runs are skipped for c, so none of
// them can follow the snapshot. An event raised while first runs may
// still arrive after it, carrying state the snapshot already holds.
func (h *Hub) Attach(c *Client, first func() Message) {
	h.register(c, first)
}

func (h *Hub) register(c *Client, first func() Message) {
	h.mu.Lock()
	h.clients[c] = true
	if first != nil {
		c.after = h.seq.Load()
		c.send <- first()
	}
	set, ok := h.bySession[c.sessionID]
	if !ok {
		set = make(map[*Client]bool)
		h.bySession[c.sessionID] = set
	}
	set[c] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Str("session_id", c.sessionID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		metrics.WSConnections.Set(float64(total))
		logging.Info().Str("session_id", c.sessionID).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// removeLocked closes the client's send channel once. h.mu must be held.
func (h *Hub) removeLocked(c *Client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	if set := h.bySession[c.sessionID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.bySession, c.sessionID)
		}
	}
	close(c.send)
	return true
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	n := h.ClientCount()
	h.closeAllClients()
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", n).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedLocked returns clients ordered by id. h.mu must be held.
func sortedLocked(set map[*Client]bool) []*Client {
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}

// deliver sends a message to every client of one session. Clients whose
// buffer is full are dropped.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var slow []*Client
	for _, c := range sortedLocked(h.bySession[d.sessionID]) {
		if d.seq <= c.after {
			continue
		}
		select {
		case c.send <- d.message:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		metrics.RecordWSError("slow_consumer")
		h.removeLocked(c)
	}
	if len(slow) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range sortedLocked(h.clients) {
		h.removeLocked(c)
	}
	metrics.WSConnections.Set(0)
}

// CloseAll disconnects every client. The HTTP server calls it when
// shutdown begins, since Shutdown leaves upgraded connections open.
func (h *Hub) CloseAll() {
	n := h.ClientCount()
	h.closeAllClients()
	if n > 0 {
		logging.Info().Int("clients_closed", n).Msg("websocket clients drained")
	}
}

// CloseSession disconnects every client of a session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range sortedLocked(h.bySession[sessionID]) {
		h.removeLocked(c)
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// sendTo queues msg for one client. It reports false when the client is
// gone or its buffer is full.
func (h *Hub) sendTo(c *Client, msg Message) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Send queues a message for the clients of a session. It never blocks.
func (h *Hub) Send(sessionID string, msg Message) {
	select {
	case h.broadcast <- delivery{seq: h.seq.Add(1), sessionID: sessionID, message: msg}:
	default:
		metrics.RecordWSError("broadcast_full")
		logging.Warn().Str("session_id", sessionID).Str("message_type", msg.Type).Msg("broadcast channel full, dropping message")
	}
}

// Notify implements session.Notifier.
func (h *Hub) Notify(sessionID string, ev session.Event) {
	h.Send(sessionID, Message{Type: string(ev.Type), Data: ev.Data})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of clients watching a session.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.bySession[sessionID])
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

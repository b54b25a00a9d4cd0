// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package session

// EventType names a session update pushed to the mini-app.
type EventType string

const (
	EventPhase     EventType = "phase"
	EventScene     EventType = "scene"
	EventSelection EventType = "selection"
)

// Event is a session update.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// PhaseData is the payload of EventPhase.
type PhaseData struct {
	Phase string `json:"phase"`
	Error string `json:"error,omitempty"`
}

// Notifier delivers session updates. Implementations must not block and
// must not call back into the session.
type Notifier interface {
	Notify(sessionID string, event Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(sessionID string, event Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(sessionID string, event Event) { f(sessionID, event) }

type nopNotifier struct{}

func (nopNotifier) Notify(string, Event) {}

// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/session"
)

//nolint:gochecknoinits // keep hub logs out of test output
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

// runHub starts a hub that stops when the test ends.
func runHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func attach(hub *Hub, sessionID string) *Client {
	c := NewClient(hub, nil, sessionID, nil)
	hub.Attach(c, nil)
	return c
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return Message{}, false
	}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Errorf("unexpected message %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAttachQueuesFirstMessage(t *testing.T) {
	t.Parallel()

	hub := runHub(t)
	c := NewClient(hub, nil, "s1", nil)
	hub.Attach(c, func() Message { return Message{Type: MessageTypeSnapshot, Data: "state"} })

	msg, ok := receive(t, c)
	if !ok || msg.Type != MessageTypeSnapshot || msg.Data != "state" {
		t.Errorf("first message = %+v, %v", msg, ok)
	}
	if hub.ClientCount() != 1 || hub.SessionClientCount("s1") != 1 {
		t.Errorf("counts = %d, %d", hub.ClientCount(), hub.SessionClientCount("s1"))
	}
}

func TestAttachSkipsQueuedDeliveries(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	hub.Notify("s1", session.Event{Type: session.EventPhase, Data: session.PhaseData{Phase: "loading"}})

	c := NewClient(hub, nil, "s1", nil)
	hub.Attach(c, func() Message { return Message{Type: MessageTypeSnapshot, Data: "ready"} })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	hub.Notify("s1", session.Event{Type: session.EventSelection, Data: nil})

	if msg, _ := receive(t, c); msg.Type != MessageTypeSnapshot {
		t.Fatalf("first message = %+v, want snapshot", msg)
	}
	if msg, _ := receive(t, c); msg.Type != MessageTypeSelection {
		t.Errorf("second message = %+v, want selection", msg)
	}
	expectNothing(t, c)
}

func TestNotifyRoutesBySession(t *testing.T) {
	t.Parallel()

	hub := runHub(t)
	a1 := attach(hub, "a")
	a2 := attach(hub, "a")
	b1 := attach(hub, "b")

	hub.Notify("a", session.Event{Type: session.EventPhase, Data: session.PhaseData{Phase: "ready"}})

	for _, c := range []*Client{a1, a2} {
		msg, _ := receive(t, c)
		if msg.Type != MessageTypePhase {
			t.Errorf("client %d got %+v", c.ID(), msg)
		}
		if data, ok := msg.Data.(session.PhaseData); !ok || data.Phase != "ready" {
			t.Errorf("payload = %#v", msg.Data)
		}
	}
	expectNothing(t, b1)
}

func TestUnregisterClosesSend(t *testing.T) {
	t.Parallel()

	hub := runHub(t)
	c := attach(hub, "s1")
	hub.Unregister <- c

	if _, ok := receive(t, c); ok {
		t.Error("send channel still open after unregister")
	}
	if hub.SessionClientCount("s1") != 0 {
		t.Error("session index not cleaned up")
	}
	if c.Queue(Message{Type: MessageTypePong}) {
		t.Error("Queue() succeeded for a disconnected client")
	}

	// A second unregister is harmless.
	hub.Unregister <- c
}

func TestCloseSession(t *testing.T) {
	t.Parallel()

	hub := runHub(t)
	a := attach(hub, "a")
	b := attach(hub, "b")

	hub.CloseSession("a")
	if _, ok := receive(t, a); ok {
		t.Error("client of closed session still open")
	}
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}
	hub.Notify("b", session.Event{Type: session.EventSelection})
	if msg, _ := receive(t, b); msg.Type != MessageTypeSelection {
		t.Errorf("other session got %+v", msg)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	t.Parallel()

	hub := runHub(t)
	slow := attach(hub, "s1")
	for i := 0; i < cap(slow.send)+1; i++ {
		hub.Notify("s1", session.Event{Type: session.EventScene})
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeShutdownClosesClients(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Serve(ctx) }()

	c := attach(hub, "s1")
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return")
	}
	if _, ok := <-c.send; ok {
		t.Error("client left open after shutdown")
	}
}

func TestCloseAll(t *testing.T) {
	t.Parallel()

	hub := runHub(t)
	a := attach(hub, "a")
	b := attach(hub, "b")

	hub.CloseAll()
	for _, c := range []*Client{a, b} {
		if _, ok := <-c.send; ok {
			t.Errorf("client %d left open", c.ID())
		}
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d", hub.ClientCount())
	}
}

func TestGetShutdownReason(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithTimeout(context.Background(), -time.Second)
	defer cancel2()

	if got := getShutdownReason(cancelled); got != ShutdownReasonContextCanceled {
		t.Errorf("cancelled reason = %s", got)
	}
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("expired reason = %s", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	t.Parallel()

	b, err := MarshalMessage(Message{Type: MessageTypeError, Data: ErrorData{Code: "NOT_FOUND", Message: "gone"}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"error","data":{"code":"NOT_FOUND","message":"gone"}}`
	if string(b) != want {
		t.Errorf("MarshalMessage() = %s, want %s", b, want)
	}
}

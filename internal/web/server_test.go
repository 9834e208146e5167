package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veylen/mapletide/internal/engine"
)

func setupServerTest(t *testing.T) (*Server, *engine.EventBus, *websocket.Conn, func()) {
	t.Helper()

	bus := engine.NewEventBus(0)
	srv := NewServer("127.0.0.1:0", bus)
	httpSrv := httptest.NewServer(srv.Handler())

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		httpSrv.Close()
		t.Fatalf("dial error: %v", err)
	}

	return srv, bus, conn, func() {
		conn.Close()
		httpSrv.Close()
		bus.Close()
	}
}

func TestEventForwarding(t *testing.T) {
	_, bus, conn, cleanup := setupServerTest(t)
	defer cleanup()

	// Let the subscription register before publishing
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		bus.Publish(engine.NewEvent(engine.EventEngineStarted, nil))
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			continue
		}

		var event engine.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.Type != engine.EventEngineStarted {
			t.Errorf("expected type=engine_started, got %s", event.Type)
		}
		return
	}
	t.Fatal("timed out waiting for forwarded event")
}

func TestControlHalt(t *testing.T) {
	srv, _, conn, cleanup := setupServerTest(t)
	defer cleanup()

	halted := make(chan bool, 1)
	srv.OnHalting = func(halting bool) { halted <- halting }

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"halt"}`)); err != nil {
		t.Fatalf("write error: %v", err)
	}

	select {
	case h := <-halted:
		if !h {
			t.Error("expected halting=true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for halt command")
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"resume"}`)); err != nil {
		t.Fatalf("write error: %v", err)
	}

	select {
	case h := <-halted:
		if h {
			t.Error("expected halting=false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for resume command")
	}
}

func TestMalformedControlIgnored(t *testing.T) {
	srv, _, conn, cleanup := setupServerTest(t)
	defer cleanup()

	called := make(chan bool, 1)
	srv.OnHalting = func(halting bool) { called <- halting }

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"halt"}`)); err != nil {
		t.Fatalf("write error: %v", err)
	}

	// The malformed frame is skipped; the valid one still lands.
	select {
	case h := <-called:
		if !h {
			t.Error("expected halting=true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for control message after malformed frame")
	}
}

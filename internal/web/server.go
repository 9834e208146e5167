// Package web streams engine events to websocket clients and accepts a small
// set of control commands back.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/engine"
)

const writeTimeout = 5 * time.Second

// Server exposes the event bus over a websocket endpoint. Each client gets its
// own bus subscription; slow clients fall behind by dropping events rather
// than stalling the engine.
type Server struct {
	bus      *engine.EventBus
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	// OnHalting is invoked when a client sends a halt or resume command.
	OnHalting func(halting bool)
}

// NewServer builds a server listening on addr.
func NewServer(addr string, bus *engine.EventBus) *Server {
	s := &Server{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Local tool, not an internet-facing service.
				return true
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpSrv.Addr).Msg("event stream listening")
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

type controlMessage struct {
	Type string `json:"type"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	events := s.bus.Subscribe()
	done := make(chan struct{})

	// Write pump: forward bus events as JSON text frames.
	go func() {
		defer conn.Close()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					log.Warn().Err(err).Msg("failed to marshal event")
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read loop: control commands, and connection liveness.
	defer func() {
		close(done)
		s.bus.Unsubscribe(events)
	}()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Warn().Err(err).Msg("discarding malformed control message")
			continue
		}

		switch msg.Type {
		case "halt":
			if s.OnHalting != nil {
				s.OnHalting(true)
			}
		case "resume":
			if s.OnHalting != nil {
				s.OnHalting(false)
			}
		default:
			log.Warn().Str("type", msg.Type).Msg("unknown control message")
		}
	}
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"nhooyr.io/websocket"
)

// eventMessage is pushed to connected clients when branding changes.
type eventMessage struct {
	Type string `json:"type"`
}

type eventHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *eventHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *eventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

func (h *eventHub) broadcast(ctx context.Context, event string) {
	payload, err := json.Marshal(eventMessage{Type: event})
	if err != nil {
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			h.remove(conn)
		}
	}
}

func (h *eventHub) closeAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Accept WebSocket
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	s.events.add(conn)
	defer s.events.remove(conn)

	ctx := r.Context()

	// Drain client messages until the connection drops. Clients only listen.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

package render

import (
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/chesser-academy/storefront/pkg/logging"
)

// streamMessage is what the view stream sends to the page.
type streamMessage struct {
	Type  string    `json:"type"` // "views" or "pong"
	Views *Snapshot `json:"views,omitempty"`
}

// Stream pushes refreshed view snapshots to connected pages over a
// websocket, so the header badge, drawer and summary update without
// polling.
type Stream struct {
	renderer *Renderer
	logger   *logging.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewStream wires a stream to the renderer's change notifications.
func NewStream(renderer *Renderer, logger *logging.Logger) *Stream {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stream{
		renderer: renderer,
		logger:   logger,
		conns:    make(map[*websocket.Conn]struct{}),
	}
	renderer.OnChange(s.broadcast)
	return s
}

// HandleWebSocket upgrades to WebSocket and streams view refreshes.
func (s *Stream) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		s.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (s *Stream) serveWS(conn *websocket.Conn, r *http.Request) {
	// Register before the initial send: a client that has seen the first
	// snapshot must also see every later one.
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	snapshot := s.renderer.Views(r.Context())
	_ = websocket.JSON.Send(conn, streamMessage{Type: "views", Views: &snapshot})

	// Reads only keep the connection alive; the page never sends state.
	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			return
		}
		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, streamMessage{Type: "pong"})
		}
	}
}

func (s *Stream) broadcast(snapshot Snapshot) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		if err := websocket.JSON.Send(conn, streamMessage{Type: "views", Views: &snapshot}); err != nil {
			s.logger.Debug("view stream send failed", "error", err)
		}
	}
}

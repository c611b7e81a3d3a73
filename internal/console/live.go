package console

import (
	"log/slog"
	"net/http"
	"sync"

	"admin_go/internal/infra"

	"github.com/gorilla/websocket"
)

// LiveHub pushes refreshed stats to connected console tabs over a
// websocket, so open panels update without polling.
type LiveHub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewLiveHub(logger *slog.Logger) *LiveHub {
	return &LiveHub{
		conns: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// Console binds to localhost; the browser origin is the
			// console itself.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With("module", "live"),
	}
}

// Handle upgrades a console tab to a push connection.
func (h *LiveHub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
	infra.GlobalMetrics.IncrementViewers()
	h.logger.Info("viewer connected", "remote", r.RemoteAddr)

	// Reader loop exists only to notice the close.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *LiveHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if h.conns[conn] {
		delete(h.conns, conn)
		infra.GlobalMetrics.DecrementViewers()
	}
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends one JSON payload to every connected tab. A failed
// write drops that connection; the rest keep receiving.
func (h *LiveHub) Broadcast(payload any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(payload); err != nil {
			h.drop(c)
		}
	}
}

// Viewers reports the number of connected tabs.
func (h *LiveHub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

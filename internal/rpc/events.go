package rpc

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub fans applied-operation events out to websocket subscribers. Slow
// subscribers are dropped rather than allowed to stall the feed.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu    sync.RWMutex
	conns map[*hubConn]struct{}
}

type hubConn struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an event hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
		conns:  make(map[*hubConn]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the subscriber.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &hubConn{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *hubConn) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(c)
			return
		}
	}
}

// readLoop discards inbound frames; it exists to notice disconnects.
func (h *Hub) readLoop(c *hubConn) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *hubConn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// Publish broadcasts an event to every subscriber.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("failed to marshal event", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- data:
		default:
			h.drop(c)
		}
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[*hubConn]struct{})
	for _, c := range conns {
		close(c.send)
		c.conn.Close()
	}
	h.mu.Unlock()
}

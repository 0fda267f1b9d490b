// Package realtime pushes booking events to connected clients over
// websockets.
package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"localstay/internal/domain"
)

const writeWait = 10 * time.Second

// client serializes writes; gorilla connections allow one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps at most one connection per identity. A newer connection
// replaces and closes the older one.
type Hub struct {
	clients map[string]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

func (h *Hub) register(id domain.Identity, conn *websocket.Conn) *client {
	c := &client{conn: conn}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[id.Key()]; exists {
		_ = old.conn.Close()
	}
	h.clients[id.Key()] = c
	return c
}

// unregister drops c if it is still the identity's current connection.
func (h *Hub) unregister(id domain.Identity, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, exists := h.clients[id.Key()]; exists && cur == c {
		delete(h.clients, id.Key())
	}
	_ = c.conn.Close()
}

// Publish sends payload to the identity if it is connected. Failed writes
// drop the connection.
func (h *Hub) Publish(to domain.Identity, payload any) {
	h.mutex.RLock()
	c, exists := h.clients[to.Key()]
	h.mutex.RUnlock()

	if !exists {
		return
	}
	if err := c.writeJSON(payload); err != nil {
		slog.Warn("realtime publish failed", "to", to.Key(), "error", err)
		h.unregister(to, c)
	}
}

func (h *Hub) IsOnline(id domain.Identity) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[id.Key()]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for key, c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, key)
	}
}

package socket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// client is one websocket connection. gorilla connections allow a single
// concurrent writer, hence the per-client lock.
type client struct {
	userID string
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *client) write(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub keeps track of connected websocket clients and fans out fleet events.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register adds a connection and returns the id to unregister it with.
// A user may hold several connections at once.
func (h *Hub) Register(userID string, conn *websocket.Conn) string {
	id := uuid.New().String()

	h.mu.Lock()
	h.clients[id] = &client{userID: userID, conn: conn}
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{"user_id": userID, "conn_id": id}).Info("websocket client registered")
	return id
}

// Unregister removes a connection.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "conn_id": connID}).Info("websocket client unregistered")
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends message to every connected client. Failed writes are
// logged and the client is left for its read loop to clean up.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(message); err != nil {
			logrus.WithError(err).WithField("user_id", c.userID).Warn("websocket write failed")
		}
	}
}

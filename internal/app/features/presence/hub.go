// internal/app/features/presence/hub.go
package presence

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Hub tracks which users currently hold an open websocket. One
// connection per user; a new connection for the same user replaces the
// old one.
type Hub struct {
	mu      sync.RWMutex
	clients map[primitive.ObjectID]*client
	log     *zap.Logger
}

// NewHub constructs an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[primitive.ObjectID]*client),
		log:     logger,
	}
}

// register adds a client and returns the connection it displaced, if
// any. The caller closes the displaced connection outside the lock.
func (h *Hub) register(userID primitive.ObjectID, c *client) *client {
	h.mu.Lock()
	old := h.clients[userID]
	h.clients[userID] = c
	h.mu.Unlock()
	h.broadcastOnline()
	return old
}

// deregister removes a client. A stale entry belonging to a newer
// connection is left alone.
func (h *Hub) deregister(userID primitive.ObjectID, c *client) {
	h.mu.Lock()
	if h.clients[userID] == c {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	h.broadcastOnline()
}

// OnlineUserIDs returns the ids of users with an open connection.
func (h *Hub) OnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id.Hex())
	}
	return ids
}

// IsOnline reports whether the user has an open connection.
func (h *Hub) IsOnline(userID primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Push delivers a payload to one user if they are connected. Offline
// receivers are not an error; they will see the data on their next
// fetch.
func (h *Hub) Push(userID primitive.ObjectID, payload any) {
	h.mu.RLock()
	c := h.clients[userID]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	c.enqueue(payload)
}

// broadcastOnline tells every connected client who is online now.
func (h *Hub) broadcastOnline() {
	msg := envelope{Type: eventOnlineUsers, Users: h.OnlineUserIDs()}
	h.mu.RLock()
	cs := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		cs = append(cs, c)
	}
	h.mu.RUnlock()
	for _, c := range cs {
		c.enqueue(msg)
	}
}

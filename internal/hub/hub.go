package hub

import (
	"sync"

	"auction-house/utils"
)

// DefaultQueueSize is the number of undelivered messages a client may hold
// before it is dropped
const DefaultQueueSize = 64

// Client is one subscriber of the hub
type Client struct {
	id        string
	userID    string
	send      chan string
	closeOnce sync.Once
}

// ID returns the connection identifier used in logs
func (c *Client) ID() string { return c.id }

// UserID returns the participant the connection belongs to
func (c *Client) UserID() string { return c.userID }

// Messages yields broadcasts in publish order. The channel is closed when
// the client is unsubscribed, dropped or the hub shuts down.
func (c *Client) Messages() <-chan string { return c.send }

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub fans broadcast messages out to every connected client
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	perUser   map[string]int
	queueSize int
	closed    bool
}

// New creates a hub whose clients buffer up to queueSize messages
func New(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{
		clients:   make(map[*Client]struct{}),
		perUser:   make(map[string]int),
		queueSize: queueSize,
	}
}

// Subscribe attaches a new client. On a closed hub the returned client's
// channel is already closed.
func (h *Hub) Subscribe(userID string) *Client {
	c := &Client{
		id:     utils.ShortID(),
		userID: userID,
		send:   make(chan string, h.queueSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		c.close()
		return c
	}
	h.clients[c] = struct{}{}
	h.perUser[userID]++

	utils.Debug("hub: client subscribed", map[string]any{"client_id": c.id, "user_id": userID})
	return c
}

// Unsubscribe detaches a client and closes its channel. It returns how many
// clients of the same user are still attached. Safe to call twice.
func (h *Hub) Unsubscribe(c *Client) int {
	h.mu.Lock()
	h.detachLocked(c)
	remaining := h.perUser[c.userID]
	h.mu.Unlock()
	return remaining
}

// Connections returns the number of clients attached for userID
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.perUser[userID]
}

func (h *Hub) detachLocked(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		h.perUser[c.userID]--
		if h.perUser[c.userID] <= 0 {
			delete(h.perUser, c.userID)
		}
	}
	c.close()
}

// Broadcast queues message for every client without blocking. A client
// whose queue is full is dropped.
func (h *Hub) Broadcast(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.detachLocked(c)
			utils.Warn("hub: dropping slow client", map[string]any{"client_id": c.id, "user_id": c.userID})
		}
	}
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Later broadcasts are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		h.detachLocked(c)
	}
}

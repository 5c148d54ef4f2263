package hub

import (
	"sync"

	"github.com/lounge-chat/lounge/src/store"
	"github.com/lounge-chat/lounge/src/types"
	"github.com/rs/zerolog"
)

// Hub owns the table of connected clients and the presence registry, and
// runs the register/unregister loop. Protocol events are dispatched on each
// connection's reader goroutine, not here.
type Hub struct {
	clients  map[string]*Client
	presence *Presence
	store    store.MessageStore

	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger zerolog.Logger
	done   chan struct{}
}

// New creates a hub backed by the given message store.
func New(st store.MessageStore, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		presence:   NewPresence(),
		store:      st,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With().Str("component", "hub").Logger(),
		done:       make(chan struct{}),
	}
}

// Run starts the hub event loop. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop halts the hub event loop.
func (h *Hub) Stop() {
	close(h.done)
}

// Register queues a client for registration.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// addClient enters the connection in the client table and acknowledges it.
// The connection is Unidentified until it sends a join event.
func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.logger.Info().Str("client_id", c.ID).Msg("client connected")
	h.SendTo(c.ID, types.ConnectionResponse(c.ID))
}

// removeClient takes the connection out of the client table and, if it had
// joined, announces the departure. The presence entry is removed before the
// broadcast so the user_left snapshot never includes the leaver.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	h.mu.Unlock()

	c.Close()

	name, names, ok := h.presence.Remove(c.ID)
	if !ok {
		h.logger.Info().Str("client_id", c.ID).Msg("client disconnected before joining")
		return
	}
	h.logger.Info().Str("client_id", c.ID).Str("username", name).Msg("user left")
	h.Broadcast(types.UserLeft(name, names))
}

// ActiveUsers returns the display names of joined connections.
func (h *Hub) ActiveUsers() []string {
	return h.presence.Names()
}

// ClientCount returns the number of connected clients, joined or not.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// JoinedCount returns the number of connections that have joined.
func (h *Hub) JoinedCount() int {
	return h.presence.Count()
}

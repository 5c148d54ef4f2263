package hub

import (
	"github.com/lounge-chat/lounge/src/types"
	"github.com/samber/lo"
)

// Fan-out is fire-and-forget: every send goes through the client's buffered
// channel without blocking, so a stalled recipient never delays delivery to
// the others or the dispatching goroutine. Dropped events are logged, not
// retried.

// SendTo delivers an event to a single connection.
func (h *Hub) SendTo(connID string, evt types.Outbound) bool {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return h.push(client, evt)
}

// Broadcast fans an event out to every connected client.
func (h *Hub) Broadcast(evt types.Outbound) {
	for _, client := range h.clientSnapshot() {
		h.push(client, evt)
	}
}

// BroadcastExcept fans an event out to every client but the originator.
func (h *Hub) BroadcastExcept(connID string, evt types.Outbound) {
	for _, client := range h.clientSnapshot() {
		if client.ID == connID {
			continue
		}
		h.push(client, evt)
	}
}

// clientSnapshot copies the client table so sends happen without the lock.
func (h *Hub) clientSnapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Values(h.clients)
}

func (h *Hub) push(c *Client, evt types.Outbound) bool {
	if !c.trySend(evt) {
		h.logger.Warn().Str("client_id", c.ID).Str("event", evt.Event).Msg("dropping event")
		return false
	}
	return true
}

package hub

import (
	"sync"

	"github.com/lounge-chat/lounge/src/types"
)

// Client wraps a WebSocket connection and manages message flow.
type Client struct {
	ID   string
	conn types.Conn
	hub  *Hub
	Send chan types.Outbound

	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

// NewClient creates a new WebSocket client wrapper.
func NewClient(id string, conn types.Conn, h *Hub) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		hub:  h,
		Send: make(chan types.Outbound, 256),
		done: make(chan struct{}),
	}
}

// ReadPump reads event envelopes from the WebSocket and dispatches them.
// Events from one connection are handled in order on this goroutine;
// separate connections dispatch in parallel. A read error of any kind is a
// disconnect.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		var env types.Inbound
		if err := c.conn.ReadJSON(&env); err != nil {
			return
		}
		c.hub.dispatch(c, env)
	}
}

// WritePump writes events from the send channel to the WebSocket.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		select {
		case evt, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// trySend queues an event for delivery without blocking. It reports false
// when the client is closed or its buffer is full; the event is dropped in
// either case.
func (c *Client) trySend(evt types.Outbound) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- evt:
		return true
	default:
		return false
	}
}

// Close signals the client to stop its pumps.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
		close(c.Send)
	}
}

package hub

import (
	"context"

	"github.com/lounge-chat/lounge/src/types"
)

// dispatch routes one inbound envelope to its handler. A failing or
// panicking handler answers the originating connection with an error event
// and never takes down the loop or other connections.
func (h *Hub) dispatch(c *Client, env types.Inbound) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().Str("client_id", c.ID).Str("event", env.Event).Any("panic", r).Msg("handler panic")
			h.SendTo(c.ID, types.ErrorEvent("internal error"))
		}
	}()

	switch env.Event {
	case types.EventJoin:
		h.handleJoin(c, env.Data)
	case types.EventSendMessage:
		h.handleSendMessage(c, env.Data)
	case types.EventTyping:
		h.handleTyping(c, env.Data)
	case types.EventDeleteMessage:
		h.handleDeleteMessage(c, env.Data)
	default:
		h.logger.Debug().Str("client_id", c.ID).Str("event", env.Event).Msg("unknown event")
	}
}

// handleJoin registers the connection in the presence registry and
// announces it. Both the direct response and the broadcast carry the same
// snapshot, taken atomically with the registration.
func (h *Hub) handleJoin(c *Client, data types.Payload) {
	name := types.DefaultUsername(data.Username)
	names := h.presence.Join(c.ID, name)

	h.logger.Info().Str("client_id", c.ID).Str("username", name).Strs("active_users", names).Msg("user joined")

	h.SendTo(c.ID, types.JoinResponse(name, names))
	h.Broadcast(types.UserJoined(name, names))
}

// handleSendMessage persists the message and, only on success, fans it out
// to every connection including the sender. Sending does not require a
// prior join.
func (h *Hub) handleSendMessage(c *Client, data types.Payload) {
	username := types.DefaultUsername(data.Username)

	msg, err := h.store.Append(context.Background(), username, data.Message)
	if err != nil {
		h.logger.Error().Err(err).Str("client_id", c.ID).Msg("persist message failed")
		h.SendTo(c.ID, types.ErrorEvent(err.Error()))
		return
	}

	h.logger.Debug().Str("message_id", msg.ID).Str("username", msg.Username).Msg("broadcasting message")
	h.Broadcast(types.NewMessage(msg.ID, msg.Username, msg.Message, msg.Timestamp))
}

// handleTyping relays the indicator to everyone but the sender. Typing
// state is never persisted.
func (h *Hub) handleTyping(c *Client, data types.Payload) {
	h.BroadcastExcept(c.ID, types.UserTyping(types.DefaultUsername(data.Username), data.IsTyping))
}

// handleDeleteMessage deletes by id and announces the deletion only when
// the store actually removed something. A missing id is silently ignored;
// an unknown id is logged but answered with nothing.
func (h *Hub) handleDeleteMessage(c *Client, data types.Payload) {
	if data.MessageID == "" {
		return
	}

	deleted, err := h.store.DeleteByID(context.Background(), data.MessageID)
	if err != nil {
		h.logger.Error().Err(err).Str("message_id", data.MessageID).Msg("delete message failed")
		h.SendTo(c.ID, types.ErrorEvent(err.Error()))
		return
	}
	if !deleted {
		h.logger.Debug().Str("message_id", data.MessageID).Msg("message not found")
		return
	}

	h.Broadcast(types.MessageDeleted(data.MessageID))
}

package service

import (
	"context"

	"github.com/lounge-chat/lounge/src/hub"
	"github.com/lounge-chat/lounge/src/store"
	"github.com/lounge-chat/lounge/src/types"
	"github.com/rs/zerolog"
)

// Service provides the high-level chat API used by the HTTP layer. Posting
// through it behaves exactly like the WebSocket send path: persist first,
// then fan out.
type Service struct {
	hub    *hub.Hub
	store  store.MessageStore
	limit  int
	logger zerolog.Logger
}

// New creates a chat service over the given hub and store. limit caps how
// many messages ListMessages returns.
func New(h *hub.Hub, st store.MessageStore, limit int, logger zerolog.Logger) *Service {
	return &Service{
		hub:    h,
		store:  st,
		limit:  limit,
		logger: logger.With().Str("component", "service").Logger(),
	}
}

// ListMessages returns stored messages in ascending creation order, up to
// the configured limit.
func (s *Service) ListMessages(ctx context.Context) ([]store.Message, error) {
	return s.store.ListRecent(ctx, s.limit)
}

// PostMessage persists a message and broadcasts it to every connected
// client. An empty username is default-filled like on the socket path.
func (s *Service) PostMessage(ctx context.Context, username, text string) (store.Message, error) {
	username = types.DefaultUsername(username)

	msg, err := s.store.Append(ctx, username, text)
	if err != nil {
		return store.Message{}, err
	}

	s.logger.Debug().Str("message_id", msg.ID).Str("username", msg.Username).Msg("message posted via api")
	s.hub.Broadcast(types.NewMessage(msg.ID, msg.Username, msg.Message, msg.Timestamp))
	return msg, nil
}

// ActiveUsers returns the display names of joined connections.
func (s *Service) ActiveUsers() []string {
	return s.hub.ActiveUsers()
}

// ClientCount returns the number of open WebSocket connections.
func (s *Service) ClientCount() int {
	return s.hub.ClientCount()
}

// JoinedCount returns the number of connections that have joined the chat.
func (s *Service) JoinedCount() int {
	return s.hub.JoinedCount()
}

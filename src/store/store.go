package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is a persisted chat message. The id and timestamp are assigned by
// the store on creation; a message is immutable afterwards except for full
// deletion.
type Message struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// MessageStore is the persistence collaborator for chat messages: an
// append-only log queried in creation order and addressed by id.
type MessageStore interface {
	// Append persists a new message, assigning its id and UTC timestamp.
	Append(ctx context.Context, username, text string) (Message, error)

	// ListRecent returns up to limit messages in ascending creation order.
	ListRecent(ctx context.Context, limit int) ([]Message, error)

	// DeleteByID removes a message and reports whether one was actually
	// removed, so callers can distinguish "deleted" from "not found".
	DeleteByID(ctx context.Context, id string) (bool, error)

	Close() error
}

// newMessage builds a message record with a fresh id and the creation time
// used for ordering.
func newMessage(username, text string) (Message, time.Time) {
	now := time.Now().UTC()
	msg := Message{
		ID:        uuid.New().String(),
		Username:  username,
		Message:   text,
		Timestamp: now.Format(time.RFC3339Nano),
	}
	return msg, now
}

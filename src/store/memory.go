package store

import (
	"context"
	"sync"
)

// MemoryStore keeps messages in process memory. It backs tests and local
// development where neither Redis nor an on-disk Badger database is wanted.
type MemoryStore struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, username, text string) (Message, error) {
	msg, _ := newMessage(username, text)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	if limit > len(s.messages) {
		limit = len(s.messages)
	}
	out := make([]Message, limit)
	copy(out, s.messages[:limit])
	return out, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, msg := range s.messages {
		if msg.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Close() error { return nil }

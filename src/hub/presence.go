package hub

import (
	"sync"

	"github.com/samber/lo"
)

// Presence is the registry of joined connections: the mapping from a
// connection id to the display name it joined with, and the single source
// of truth for "who is here". Snapshot reads happen under the same lock as
// mutations, so a broadcast never carries a half-applied view.
type Presence struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewPresence creates an empty registry.
func NewPresence() *Presence {
	return &Presence{names: make(map[string]string)}
}

// Join inserts or replaces the entry for a connection and returns the
// resulting name snapshot. A second join from the same connection replaces
// its entry rather than duplicating it.
func (p *Presence) Join(connID, name string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names[connID] = name
	return lo.Values(p.names)
}

// Remove deletes the entry for a connection if one exists, returning the
// removed name and the post-removal snapshot. ok is false when the
// connection never joined, which is a normal case, not an error.
func (p *Presence) Remove(connID string) (name string, names []string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	name, ok = p.names[connID]
	if !ok {
		return "", nil, false
	}
	delete(p.names, connID)
	return name, lo.Values(p.names), true
}

// Names returns a point-in-time snapshot of display names. Order is
// unspecified.
func (p *Presence) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Values(p.names)
}

// Count returns the number of joined connections.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.names)
}

package session

import (
	"sync"

	"github.com/beatty/myagent/core"
)

// Store persists conversation history keyed by session id. Implementations
// must be safe for concurrent use.
type Store interface {
	Append(sessionID string, contents ...core.Content) error
	History(sessionID string) ([]core.Content, error)
}

// InMemoryStore keeps histories in a map guarded by an RWMutex. History
// reads return a snapshot slice safe for caller mutation.
type InMemoryStore struct {
	mu        sync.RWMutex
	histories map[string][]core.Content
}

// NewInMemoryStore returns an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{histories: make(map[string][]core.Content)}
}

// Append adds contents to the session's history in order.
func (s *InMemoryStore) Append(sessionID string, contents ...core.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[sessionID] = append(s.histories[sessionID], contents...)
	return nil
}

// History returns a snapshot of the session's accumulated contents.
func (s *InMemoryStore) History(sessionID string) ([]core.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.histories[sessionID]
	out := make([]core.Content, len(h))
	copy(out, h)
	return out, nil
}

package store

import (
	"sync"

	"twinclash/internal/live"
)

type MemoryStore struct {
	mu       sync.RWMutex
	attempts map[string]*live.Attempt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts: map[string]*live.Attempt{},
	}
}

func (m *MemoryStore) GetAttempt(id string) (*live.Attempt, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	return a, ok
}

func (m *MemoryStore) SaveAttempt(a *live.Attempt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
}

func (m *MemoryStore) DeleteAttempt(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attempts, id)
}

func (m *MemoryStore) ListAttempts() []*live.Attempt {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*live.Attempt, 0, len(m.attempts))
	for _, a := range m.attempts {
		out = append(out, a)
	}
	return out
}

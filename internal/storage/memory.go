package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory.  It is used when Redis is
// unavailable and in tests; values do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, clientID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[clientID+":"+key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, clientID, key, value string) error {
	m.mu.Lock()
	m.values[clientID+":"+key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	delete(m.values, clientID+":"+key)
	m.mu.Unlock()
	return nil
}

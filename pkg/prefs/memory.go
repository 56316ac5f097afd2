package prefs

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used in tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[prefKey(userID, key)], nil
}

func (s *MemoryStore) Set(_ context.Context, userID uuid.UUID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[prefKey(userID, key)] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, prefKey(userID, key))
	return nil
}

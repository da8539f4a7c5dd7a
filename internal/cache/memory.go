package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore is a process-local Store. It serves single-node deployments
// and doubles as the test stand-in for the sqlite store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false, nil
	}
	if s.now().After(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return Entry{}, false, nil
	}
	return item.entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry, ttl time.Duration) error {
	s.mu.Lock()
	s.items[key] = memoryItem{entry: e, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

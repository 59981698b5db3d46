package database

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (it memoryItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// MemoryStore is a mutex-guarded in-process Store with lazy TTL expiry.
// Update is atomic because the whole read-modify-write runs under the
// lock. It backs the test suite and any deployment that does not need
// holds to survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	items   map[string]memoryItem
	indexes map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:   make(map[string]memoryItem),
		indexes: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok || it.expired(time.Now()) {
		delete(s.items, key)
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, value, ttl)
	return nil
}

func (s *MemoryStore) set(key string, value []byte, ttl time.Duration) {
	it := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	s.items[key] = it
}

func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.items, key)
	}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []byte
	if it, ok := s.items[key]; ok && !it.expired(time.Now()) {
		current = append([]byte(nil), it.value...)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		delete(s.items, key)
		return nil
	}
	s.set(key, next, ttl)
	return nil
}

func (s *MemoryStore) AddToIndex(ctx context.Context, collection, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[collection]
	if !ok {
		idx = make(map[string]struct{})
		s.indexes[collection] = idx
	}
	idx[member] = struct{}{}
	return nil
}

func (s *MemoryStore) RemoveFromIndex(ctx context.Context, collection, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.indexes[collection]; ok {
		delete(idx, member)
	}
	return nil
}

func (s *MemoryStore) IndexMembers(ctx context.Context, collection string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexes[collection]
	members := make([]string, 0, len(idx))
	for member := range idx {
		members = append(members, member)
	}
	return members, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

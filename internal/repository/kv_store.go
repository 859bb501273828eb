package repository

import (
	"context"
	"sync"
)

// KVStore is the opaque key/value persistence behind the record collections.
// SetMany must apply all values or none.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
}

func namespaced(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}

// MemoryKVStore keeps values in process memory.
type MemoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKVStore constructs an empty in-memory store.
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (s *MemoryKVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

// GetMany returns the values present for the given keys.
func (s *MemoryKVStore) GetMany(_ context.Context, keys []string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if raw, ok := s.data[key]; ok {
			out[key] = append([]byte(nil), raw...)
		}
	}
	return out, nil
}

// SetMany stores every value under a single lock.
func (s *MemoryKVStore) SetMany(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, raw := range values {
		s.data[key] = append([]byte(nil), raw...)
	}
	return nil
}

package repository

import (
	"context"
	"time"
)

// StorageObserver receives the duration of each store call.
type StorageObserver func(operation string, duration time.Duration)

// ObservedKVStore times every call made to the wrapped store.
type ObservedKVStore struct {
	next    KVStore
	observe StorageObserver
}

// NewObservedKVStore wraps store. A nil observer returns store unchanged.
func NewObservedKVStore(store KVStore, observe StorageObserver) KVStore {
	if observe == nil {
		return store
	}
	return &ObservedKVStore{next: store, observe: observe}
}

func (s *ObservedKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	defer s.track("get", time.Now())
	return s.next.Get(ctx, key)
}

func (s *ObservedKVStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	defer s.track("get_many", time.Now())
	return s.next.GetMany(ctx, keys)
}

func (s *ObservedKVStore) SetMany(ctx context.Context, values map[string][]byte) error {
	defer s.track("set_many", time.Now())
	return s.next.SetMany(ctx, values)
}

func (s *ObservedKVStore) track(operation string, start time.Time) {
	s.observe(operation, time.Since(start))
}

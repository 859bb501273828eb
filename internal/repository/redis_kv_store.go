package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKVStore persists collections as plain Redis strings.
type RedisKVStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisKVStore constructs a Redis backed store. Keys are prefixed with the namespace.
func NewRedisKVStore(client *redis.Client, namespace string) *RedisKVStore {
	return &RedisKVStore{client: client, namespace: namespace}
}

// Get fetches a single key.
func (s *RedisKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, namespaced(s.namespace, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, true, nil
}

// GetMany fetches several keys in one MGET round trip.
func (s *RedisKVStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = namespaced(s.namespace, key)
	}
	vals, err := s.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}
	return decodeMGet(keys, vals), nil
}

// decodeMGet pairs MGET replies with their keys, dropping missing ones.
func decodeMGet(keys []string, vals []interface{}) map[string][]byte {
	out := make(map[string][]byte, len(keys))
	for i, val := range vals {
		if i >= len(keys) {
			break
		}
		switch v := val.(type) {
		case string:
			out[keys[i]] = []byte(v)
		case []byte:
			out[keys[i]] = v
		}
	}
	return out
}

// SetMany writes all values inside a MULTI/EXEC transaction.
func (s *RedisKVStore) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, raw := range values {
			pipe.Set(ctx, namespaced(s.namespace, key), raw, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set collections: %w", err)
	}
	return nil
}

// Package redis provides a Redis-backed implementation of the storage.Store interface.
// Each collection is a single string key under a configurable prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/mmynk/grouporder/internal/storage"
)

var _ storage.Store = (*RedisStore)(nil)

// RedisStore implements storage.Store on top of a Redis client.
type RedisStore struct {
	Client *redis.Client
	prefix string
}

// New connects to addr and verifies the connection with PING.
func New(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewWithClient(client, prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{Client: client, prefix: prefix}
}

func (r *RedisStore) key(collection string) string {
	return r.prefix + collection
}

// Get retrieves the document stored under key.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the document stored under key. Collections never expire.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.Client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set collection %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.Client.Close()
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// Collection keys. Each holds one JSON document.
const (
	TokensKey = "tokens"
	OrdersKey = "orders"
)

// ErrNotFound is returned by Get when a collection has never been written.
var ErrNotFound = errors.New("collection not found")

// Store defines the interface for collection storage operations.
// A collection is an opaque JSON document stored under a key, the same way
// a browser's local storage holds one string per key. This abstraction allows
// swapping backends (SQLite, Redis, in-memory) without changing the ledger.
type Store interface {
	// Get returns the document stored under key.
	// Returns ErrNotFound if the key has never been set.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the document stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}

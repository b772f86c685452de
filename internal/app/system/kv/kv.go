// Package kv is the key-value mechanism behind the record store.
//
// Values are opaque byte slices (the record store writes JSON arrays).
// Three backends are provided:
//   - Memory: process-local map, used by tests and the "memory" backend
//   - Bolt:   single-file bbolt database, the default for local installs
//   - Mongo:  one document per key in a MongoDB collection
//
// Every backend is safe for concurrent use. Writes are last-write-wins;
// there is no versioning or compare-and-swap.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written
// (or has been deleted).
var ErrNotFound = errors.New("kv: key not found")

// Store is the key-value contract every backend satisfies.
type Store interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendMongo  = "mongo"
)

// Backends lists every accepted backend name.
var Backends = []string{BackendBolt, BackendMongo, BackendMemory}

package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("storage: key not found")

// Store is the key-value store backing identity fields and cache entries.
// Values are opaque bytes; callers own serialization. The store is advisory
// only: the remote backend stays authoritative, so every caller must be able
// to proceed when a Store call fails.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KVStore.Get for keys that were never written.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the persistence port: an opaque mapping from string keys to
// JSON-encoded documents. Every write replaces the whole value for its key,
// unconditionally: the store offers no versioning and no partial update, so
// the effective ordering guarantee is last-write-wins.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

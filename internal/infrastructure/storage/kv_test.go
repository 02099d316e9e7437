package storage

import (
	"context"

	"github.com/certtrack/certification-system/internal/core/ports"
)

// memKV is an in-memory KVStore for repository tests.
type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (kv *memKV) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := kv.data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (kv *memKV) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	kv.data[key] = stored
	return nil
}

func (kv *memKV) Delete(_ context.Context, key string) error {
	if _, ok := kv.data[key]; !ok {
		return ports.ErrKeyNotFound
	}
	delete(kv.data, key)
	return nil
}

func (kv *memKV) Ping(_ context.Context) error {
	return nil
}

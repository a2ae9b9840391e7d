package store

import "context"

// Store is the local key-value persistence the response cache builds on.
// Keys are namespaced by callers; values are opaque bytes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, keys ...string) error
	// BytesInUse is the aggregate size of all stored keys and values.
	BytesInUse(ctx context.Context) (int64, error)
	// Scan returns every entry whose key starts with prefix.
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
	Close() error
}

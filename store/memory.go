package store

import (
	"context"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local Store, used for ephemeral sessions and tests.
type MemoryStore struct {
	items *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	// entries never expire on their own; expiry belongs to the response cache.
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v.([]byte)...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.items.Set(key, append([]byte(nil), value...), gocache.NoExpiration)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.items.Delete(key)
	}
	return nil
}

func (m *MemoryStore) BytesInUse(_ context.Context) (int64, error) {
	var size int64
	for key, item := range m.items.Items() {
		size += int64(len(key) + len(item.Object.([]byte)))
	}
	return size, nil
}

func (m *MemoryStore) Scan(_ context.Context, prefix string) (map[string][]byte, error) {
	entries := make(map[string][]byte)
	for key, item := range m.items.Items() {
		if strings.HasPrefix(key, prefix) {
			entries[key] = append([]byte(nil), item.Object.([]byte)...)
		}
	}
	return entries, nil
}

func (m *MemoryStore) Close() error {
	m.items.Flush()
	return nil
}

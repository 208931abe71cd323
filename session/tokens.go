// Package session keeps one workspace per browser session: the signed-in
// user, the persisted bearer token and the stores that depend on them.
package session

import (
	"context"
	"sync"

	"go-storefront/client"
)

// MemoryTokens is a process-local TokenStore
type MemoryTokens struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{values: make(map[string]string)}
}

func (m *MemoryTokens) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryTokens) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryTokens) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type scopedTokens struct {
	inner  client.TokenStore
	prefix string
}

// Scoped namespaces every key of inner under scope
func Scoped(inner client.TokenStore, scope string) client.TokenStore {
	return scopedTokens{inner: inner, prefix: scope + ":"}
}

func (s scopedTokens) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s scopedTokens) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s scopedTokens) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Package resultcache stores rendered aggregation results keyed by dataset
// fingerprint and question.
package resultcache

import (
	"context"
	"fmt"
	"sync"
)

// Cache is a string key/value store for serialized results.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Key builds the cache key for one question's result on one dataset.
func Key(fingerprint uint64, question int) string {
	return fmt.Sprintf("loanscope:insight:%016x:%d", fingerprint, question)
}

// Memory is an in-process Cache.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the cached value for key.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Package cache provides lifecycle.Cache implementations for computed
// loan-status snapshots: Redis for deployments, Memory for tests and
// single-binary setups. A cache miss is never an error; the lifecycle
// service recomputes and re-sets.
package cache

import (
	"context"
	"sync"

	"github.com/commonfund/loan-engine/lifecycle"
)

// Memory is a process-local cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ lifecycle.Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is the best-effort key/value collaborator used by the source
// adapters. A miss or backend error never blocks a scan, only freshness.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type entry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

// Memory is an in-process, size-bounded TTL cache. When the entry count
// exceeds the bound, the oldest entries are evicted first.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

// MemoryOption customizes a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates a bounded in-memory cache. maxEntries <= 0 selects the
// default bound of 1024 entries.
func NewMemory(maxEntries int, opts ...MemoryOption) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	m := &Memory{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached value for key if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have replaced
		// the expired entry with a fresh one.
		if cur, ok := m.entries[key]; ok && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key for ttl. A non-positive ttl disables caching
// for the entry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, storedAt: now, expiresAt: now.Add(ttl)}
	if len(m.entries) > m.maxEntries {
		m.evictOldestLocked()
	}
	return nil
}

// Delete removes key if present.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) evictOldestLocked() {
	for len(m.entries) > m.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range m.entries {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey = k
				oldest = e.storedAt
			}
		}
		delete(m.entries, oldestKey)
	}
}

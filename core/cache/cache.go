package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache is the interface features depend on. It is injected rather than
// accessed as a singleton so tests can substitute a deterministic instance.
type Cache interface {
	// Get returns the stored value, or nil if the key is absent or expired.
	Get(key string) any
	// Set stores value under key with the given time-to-live.
	// It overwrites any existing entry.
	Set(key string, value any, ttl time.Duration)
	// Delete removes the exact key.
	Delete(key string)
	// DeletePattern removes every key that starts with prefix.
	DeletePattern(prefix string)
}

// entry is a stored value with its expiry timestamp.
type entry struct {
	value  any
	expiry time.Time
}

// Memory is an in-process Cache backed by a mutex-guarded map.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is the clock source, overridable in tests.
	now func() time.Time
}

// New creates an empty in-memory cache.
func New() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value for key, or nil if absent or expired.
// Expired entries are deleted on read.
func (m *Memory) Get(key string) any {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil
	}

	if m.now().After(e.expiry) {
		m.mu.Lock()
		// Re-check under the write lock: a Set may have refreshed the entry.
		if cur, ok := m.entries[key]; ok && m.now().After(cur.expiry) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil
	}

	return e.value
}

// Set stores value under key, expiring after ttl.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiry: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Delete removes the exact key if present.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// DeletePattern removes every key with the given prefix.
func (m *Memory) DeletePattern(prefix string) {
	m.mu.Lock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}

// Len returns the number of stored entries, including not-yet-reaped
// expired ones. Used for diagnostics and tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// SetClock overrides the clock source. Tests use this to control expiry
// deterministically.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pdrpinto/gridpath"
)

// Memory is an in-process Cache with a bounded number of entries.
type Memory struct {
	mu        sync.RWMutex
	entries   map[Key]gridpath.Result
	maxSize   int
	hits      int64 // Use atomic operations
	misses    int64 // Use atomic operations
	evictions int64 // Use atomic operations
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a cache holding at most maxSize results. Zero or less
// means unbounded.
func NewMemory(maxSize int) *Memory {
	return &Memory{
		entries: make(map[Key]gridpath.Result),
		maxSize: maxSize,
	}
}

// Get retrieves a result if present.
func (m *Memory) Get(_ context.Context, key Key) (gridpath.Result, bool, error) {
	m.mu.RLock()
	result, found := m.entries[key]
	m.mu.RUnlock()

	if found {
		atomic.AddInt64(&m.hits, 1)
		result.Path = append(gridpath.Path{}, result.Path...)
	} else {
		atomic.AddInt64(&m.misses, 1)
	}
	return result, found, nil
}

// Put stores a result, evicting an arbitrary entry when full.
func (m *Memory) Put(_ context.Context, key Key, result gridpath.Result) error {
	result.Path = append(gridpath.Path{}, result.Path...)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxSize > 0 && len(m.entries) >= m.maxSize {
		for k := range m.entries {
			delete(m.entries, k)
			atomic.AddInt64(&m.evictions, 1)
			break
		}
	}
	m.entries[key] = result
	return nil
}

// MemoryStats reports cache effectiveness.
type MemoryStats struct {
	Size      int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Stats returns current counters.
func (m *Memory) Stats() MemoryStats {
	m.mu.RLock()
	size := len(m.entries)
	m.mu.RUnlock()
	return MemoryStats{
		Size:      size,
		Hits:      atomic.LoadInt64(&m.hits),
		Misses:    atomic.LoadInt64(&m.misses),
		Evictions: atomic.LoadInt64(&m.evictions),
	}
}

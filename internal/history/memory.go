// internal/history/memory.go
//
// In-memory implementation of the history Store.
// Default ledger when no HISTORY_DB is configured.
//
// Characteristics:
//   - Keeps the most recent `capacity` records; older ones are dropped.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package history

import (
	"context"
	"sync"
)

// Store defines the persistence interface for finished matches.
// Implementations may be backed by memory (this file) or SQLite.
type Store interface {
	// Record appends a finished match.
	Record(ctx context.Context, m MatchRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]MatchRecord, error)
}

// memory is a bounded slice-backed Store implementation.
type memory struct {
	mu       sync.RWMutex  // guards records
	records  []MatchRecord // oldest first
	capacity int
	nextID   int64
}

// NewMemoryStore constructs an in-memory Store holding at most capacity
// records (capacity <= 0 selects 500).
func NewMemoryStore(capacity int) Store {
	if capacity <= 0 {
		capacity = 500
	}
	return &memory{capacity: capacity}
}

// Record appends m, evicting the oldest record when full.
func (m *memory) Record(ctx context.Context, r MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.records = append(m.records, r)
	if over := len(m.records) - m.capacity; over > 0 {
		m.records = append([]MatchRecord(nil), m.records[over:]...)
	}
	return nil
}

// Recent returns the newest records first.
func (m *memory) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]MatchRecord, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

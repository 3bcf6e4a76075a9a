package remote

import (
	"context"
	"sync"

	"github.com/dalkommatt/ai-writer/internal/journal"
)

// MemoryStore is an in-memory Store used by tests and offline development.
//
// Failure injection: SetFailReads / SetFailWrites make the corresponding
// operations return the given error. Call counters let tests assert debounce
// coalescing.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]journal.Record

	failReads  error
	failWrites error

	upsertCalls int
	deleteCalls int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]journal.Record)}
}

// SetFailReads arranges for subsequent ReadAll calls to return err.
// Pass nil to restore normal behavior.
func (m *MemoryStore) SetFailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = err
}

// SetFailWrites arranges for subsequent Upsert and Delete calls to return err.
// Pass nil to restore normal behavior.
func (m *MemoryStore) SetFailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = err
}

// Seed loads records directly, bypassing Upsert counters.
func (m *MemoryStore) Seed(records ...journal.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.records[r.Identity] = r
	}
}

// ReadAll returns the stored records in unspecified order.
func (m *MemoryStore) ReadAll(ctx context.Context) ([]journal.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewTransientError("read_all", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failReads != nil {
		return nil, m.failReads
	}

	out := make([]journal.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

// Upsert inserts or replaces records keyed by identity.
func (m *MemoryStore) Upsert(ctx context.Context, records []journal.Record) error {
	if err := ctx.Err(); err != nil {
		return NewTransientError("upsert", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.upsertCalls++
	if m.failWrites != nil {
		return m.failWrites
	}

	for _, r := range records {
		m.records[r.Identity] = r
	}
	return nil
}

// Delete removes one record. Deleting an absent identity is a not-found error.
func (m *MemoryStore) Delete(ctx context.Context, identity string) error {
	if err := ctx.Err(); err != nil {
		return NewTransientError("delete", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++
	if m.failWrites != nil {
		return m.failWrites
	}

	if _, ok := m.records[identity]; !ok {
		return NewNotFoundError("delete", identity)
	}
	delete(m.records, identity)
	return nil
}

// Snapshot returns the stored records sorted most recent first.
// Test helper; not part of the Store contract.
func (m *MemoryStore) Snapshot() []journal.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]journal.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	journal.SortDesc(out)
	return out
}

// Upserts returns the number of Upsert calls observed so far.
func (m *MemoryStore) Upserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCalls
}

// Deletes returns the number of Delete calls observed so far.
func (m *MemoryStore) Deletes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteCalls
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

var _ Store = (*MemoryStore)(nil)

// Package remote defines the contract with the authoritative record store and
// provides its two implementations: an HTTP client for the hosted store and an
// in-memory store for tests.
//
// The sync core needs exactly three operations from the store: ordered bulk
// read, upsert-by-identity, and delete-by-identity. Everything else about the
// hosted service (auth flows, row-level security, realtime) is outside this
// package.
package remote

import (
	"context"

	"github.com/dalkommatt/ai-writer/internal/journal"
)

// Store is the authoritative, durable, multi-device record store.
//
// Implementations must normalize timestamps to UTC instants before returning
// records; wire formats differ byte-for-byte while denoting the same instant,
// and conflict resolution compares instants.
type Store interface {
	// ReadAll returns every record visible to the caller.
	// No ordering is guaranteed; callers sort.
	ReadAll(ctx context.Context) ([]journal.Record, error)

	// Upsert inserts or replaces records keyed by identity.
	// The operation is idempotent: re-sending unchanged records is harmless.
	Upsert(ctx context.Context, records []journal.Record) error

	// Delete removes the record with the given identity.
	Delete(ctx context.Context, identity string) error
}

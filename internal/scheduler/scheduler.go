// Package scheduler propagates canonical-set changes to the local cache and
// the remote store.
//
// The cache write-through is synchronous: the cache always reflects the latest
// canonical set. The remote upsert is debounced: rapid edits coalesce into a
// single bulk write of the full set, sent after a quiet period. Sending the
// whole set rather than per-record diffs avoids partial-write ordering
// problems; record counts are small and the upsert is idempotent by identity.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dalkommatt/ai-writer/internal/cache"
	"github.com/dalkommatt/ai-writer/internal/journal"
	"github.com/dalkommatt/ai-writer/internal/remote"
)

// DefaultWindow is the debounce quiet period measured from the last change.
const DefaultWindow = time.Second

// Scheduler observes canonical-set changes and syncs them outward.
//
// Thread-safety model:
//   - Notify/Flush/Close: safe from any goroutine
//   - the debounce timer goroutine only ever reads frozen snapshots
//
// The canonical set itself is never shared with the timer goroutine: Notify
// captures a copy, and later mutations cannot touch an in-flight payload.
type Scheduler struct {
	store  remote.Store
	cache  *cache.Cache
	window time.Duration

	mu            sync.Mutex
	timer         *time.Timer
	pending       []journal.Record // frozen snapshot for the armed timer
	synchronizing bool
	lastErr       error
	closed        bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWindow overrides the debounce window.
// Tests use short windows; production keeps DefaultWindow.
func WithWindow(d time.Duration) Option {
	return func(s *Scheduler) {
		s.window = d
	}
}

// New creates a scheduler that writes through to c and upserts to store.
func New(store remote.Store, c *cache.Cache, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:  store,
		cache:  c,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify records a new canonical set.
//
// The cache write happens immediately. The remote upsert is (re)armed: any
// pending timer is cancelled and a fresh quiet period begins, so a burst of
// edits produces exactly one upsert carrying only the final state.
func (s *Scheduler) Notify(records []journal.Record) {
	snapshot := journal.Clone(records)

	if err := s.cache.Put(snapshot); err != nil {
		// Cache failure is not fatal: the canonical set stays usable and
		// the remote path still runs.
		slog.Error("cache write-through failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.pending = snapshot
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.fire)
}

// fire runs on the timer goroutine once the quiet period elapses.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.closed || s.pending == nil {
		s.mu.Unlock()
		return
	}
	snapshot := s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	s.upsert(context.Background(), snapshot)
}

// Flush cancels any pending timer and upserts the latest snapshot now.
// Used before process exit so a quiet period never outlives the session.
// No-op when nothing changed since the last sync.
func (s *Scheduler) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snapshot := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snapshot == nil {
		return nil
	}
	return s.upsert(ctx, snapshot)
}

// upsert performs one sync cycle against the remote store.
//
// The synchronizing flag covers the duration of the call. On failure the
// error is captured and exposed; nothing rolls back. The next mutation's
// cycle re-sends the full set, which is the de facto retry.
func (s *Scheduler) upsert(ctx context.Context, snapshot []journal.Record) error {
	cycle := uuid.Must(uuid.NewV7()).String()

	s.mu.Lock()
	s.synchronizing = true
	s.mu.Unlock()

	slog.Debug("sync cycle starting", "cycle", cycle, "records", len(snapshot))
	err := s.store.Upsert(ctx, snapshot)

	s.mu.Lock()
	s.synchronizing = false
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		slog.Error("sync cycle failed", "cycle", cycle, "records", len(snapshot), "error", err)
		return err
	}

	slog.Info("sync cycle complete", "cycle", cycle, "records", len(snapshot))
	return nil
}

// Synchronizing reports whether an upsert is currently in flight.
func (s *Scheduler) Synchronizing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synchronizing
}

// LastError returns the error captured by the most recent sync cycle,
// or nil if it succeeded. Cleared by the next successful cycle.
func (s *Scheduler) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close cancels any pending debounce timer. A pending upsert never fires
// after Close; snapshots not yet sent are dropped (the cache already has
// them, and the next session's reconciliation picks them up).
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

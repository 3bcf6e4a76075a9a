// Package session is the orchestrator of the sync core. It owns the canonical
// record set for the lifetime of a session, sequences startup reconciliation
// before any sync can fire, and exposes the mutation operations the
// presentation layer calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dalkommatt/ai-writer/internal/cache"
	"github.com/dalkommatt/ai-writer/internal/journal"
	"github.com/dalkommatt/ai-writer/internal/reconcile"
	"github.com/dalkommatt/ai-writer/internal/remote"
	"github.com/dalkommatt/ai-writer/internal/scheduler"
	"github.com/dalkommatt/ai-writer/internal/selector"
)

// Phase is the orchestrator's lifecycle state.
//
// The strict phase order exists to prevent one specific race: the scheduler
// observing a half-initialized canonical set and upserting an incomplete
// record list before reconciliation completes. Mutations and scheduler
// notifications are only possible in PhaseReady.
type Phase int

const (
	// PhaseIdle is the state before Start.
	PhaseIdle Phase = iota
	// PhaseLoading covers the synchronous local-cache read.
	PhaseLoading
	// PhaseReconciling covers the remote read and merge.
	PhaseReconciling
	// PhaseReady is the steady state; edits and syncs flow freely.
	PhaseReady
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReconciling:
		return "reconciling"
	case PhaseReady:
		return "ready"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Sentinel errors for misuse of the session lifecycle.
var (
	// ErrNotReady is returned when an operation requires PhaseReady.
	ErrNotReady = errors.New("session is not ready")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrUnknownRecord is returned when a mutation targets an identity
	// absent from the canonical set.
	ErrUnknownRecord = errors.New("no such record")
)

// Navigator receives the single navigation side effect the core emits:
// "set the current-record reference to X". The core never reads routing
// state back.
type Navigator interface {
	Navigate(identity string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(identity string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(identity string) { f(identity) }

// Config assembles a session's collaborators. Cache, Store and Scheduler are
// required; the rest default sensibly.
type Config struct {
	Cache     *cache.Cache
	Store     remote.Store
	Scheduler *scheduler.Scheduler

	// Navigator receives navigation side effects. Defaults to a no-op.
	Navigator Navigator

	// Identities generates record identities. Defaults to the system clock.
	Identities journal.IdentitySource

	// Now stamps MutatedAt on content changes. Defaults to time.Now.
	Now func() time.Time
}

// Session owns the canonical record set.
//
// All mutation handlers are synchronous and run to completion under one
// mutex; there is a single logical mutator. The scheduler only ever sees
// frozen snapshots, so an in-flight upsert can never observe a later edit.
type Session struct {
	cache *cache.Cache
	store remote.Store
	sched *scheduler.Scheduler
	nav   Navigator
	ids   journal.IdentitySource
	now   func() time.Time

	mu      sync.Mutex
	phase   Phase
	records []journal.Record // canonical set, sorted descending by identity
	current string           // identity of the current record
	lastErr error            // last remote read/delete failure
}

// New creates an unstarted session.
func New(cfg Config) *Session {
	s := &Session{
		cache: cfg.Cache,
		store: cfg.Store,
		sched: cfg.Scheduler,
		nav:   cfg.Navigator,
		ids:   cfg.Identities,
		now:   cfg.Now,
		phase: PhaseIdle,
	}
	if s.nav == nil {
		s.nav = NavigatorFunc(func(string) {})
	}
	if s.ids == nil {
		s.ids = journal.SystemIdentitySource{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Start runs the startup sequence: load the local cache, reconcile against
// the remote store, resolve the current record from externalRef, and only
// then open the gate for sync.
//
// A remote read failure is captured, not fatal: reconciliation proceeds with
// an empty remote set and the session works offline.
func (s *Session) Start(ctx context.Context, externalRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIdle {
		return fmt.Errorf("%w (phase %s)", ErrAlreadyStarted, s.phase)
	}

	s.phase = PhaseLoading
	local, err := s.cache.Records()
	if err != nil {
		// The cache has no hard failure mode: a broken file means an
		// empty session, the remote store still has the data.
		slog.Warn("local cache unreadable, starting empty", "error", err)
		local = nil
	}
	slog.Debug("local cache loaded", "count", len(local))

	s.reconcileLocked(ctx, local, externalRef)
	return nil
}

// SignIn re-runs remote reconciliation after an authentication event.
// The store may now expose records scoped to the signed-in identity that
// were previously inaccessible. The local cache is not re-read; the
// canonical set is already current.
func (s *Session) SignIn(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}

	slog.Info("sign-in detected, reconciling against remote store")
	s.reconcileLocked(ctx, s.records, s.current)
	return nil
}

// reconcileLocked performs the Reconciling -> Ready transition.
// Caller holds s.mu.
func (s *Session) reconcileLocked(ctx context.Context, local []journal.Record, ref string) {
	s.phase = PhaseReconciling

	rem, err := s.store.ReadAll(ctx)
	if err != nil {
		slog.Warn("remote read failed, reconciling with empty remote set", "error", err)
		s.lastErr = err
		rem = nil
	}

	s.records = reconcile.Merge(local, rem, s.ids)
	s.applySelectionLocked(ref)
	s.phase = PhaseReady

	slog.Info("reconciliation complete",
		"records", len(s.records),
		"current", s.current,
	)

	// The gate is open; let the scheduler persist the merged set.
	s.sched.Notify(s.records)
}

// applySelectionLocked resolves ref against the canonical set, updates the
// current record, and emits the navigation side effect when needed.
// Caller holds s.mu; the set is non-empty by invariant.
func (s *Session) applySelectionLocked(ref string) {
	sel := selector.Select(ref, s.records)
	s.current = sel.Current.Identity
	if sel.NavigateTo != "" {
		s.nav.Navigate(sel.NavigateTo)
	}
}

// Select re-resolves the external reference, e.g. after the route changed.
// Returns the record that became current.
func (s *Session) Select(ref string) (journal.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return journal.Record{}, fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}

	s.applySelectionLocked(ref)
	i := journal.Find(s.records, s.current)
	return s.records[i], nil
}

// Create adds a fresh, empty record and makes it current.
//
// Identity collision (two creates within the same millisecond) is not an
// error: the create degrades to an idempotent navigation to the existing
// record. The returned bool reports whether a record was actually created.
func (s *Session) Create() (journal.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return journal.Record{}, false, fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}

	identity := s.ids.NewIdentity()
	if i := journal.Find(s.records, identity); i >= 0 {
		slog.Debug("create collided with existing identity, navigating", "identity", identity)
		s.current = identity
		s.nav.Navigate(identity)
		return s.records[i], false, nil
	}

	record := journal.Record{
		Identity:  identity,
		MutatedAt: s.now().UTC(),
	}
	s.records = append(s.records, record)
	journal.SortDesc(s.records)

	s.current = identity
	s.nav.Navigate(identity)
	s.sched.Notify(s.records)

	slog.Info("record created", "identity", identity)
	return record, true, nil
}

// SetTitle updates the title of a record, refreshing its mutation stamp.
func (s *Session) SetTitle(identity, title string) error {
	return s.mutate(identity, func(r *journal.Record) {
		r.Title = journal.NormalizeText(title)
	})
}

// SetBody updates the body of a record, refreshing its mutation stamp.
func (s *Session) SetBody(identity, body string) error {
	return s.mutate(identity, func(r *journal.Record) {
		r.Body = journal.NormalizeText(body)
	})
}

// mutate applies a content change and refreshes MutatedAt. Every local edit
// moves the stamp to "now", so it is monotonically non-decreasing within a
// session.
func (s *Session) mutate(identity string, apply func(*journal.Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}

	i := journal.Find(s.records, identity)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, identity)
	}

	apply(&s.records[i])
	s.records[i].MutatedAt = s.now().UTC()
	s.sched.Notify(s.records)
	return nil
}

// Delete removes a record everywhere and selects its replacement: the new
// first record in sort order, or a fresh seed when the set would empty.
//
// The local removal is never rolled back. A remote delete failure is
// captured into the error surface; a remote not-found is treated as success
// (the record may never have synced).
func (s *Session) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()

	if s.phase != PhaseReady {
		s.mu.Unlock()
		return fmt.Errorf("%w (phase %s)", ErrNotReady, s.phase)
	}

	i := journal.Find(s.records, identity)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRecord, identity)
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	if len(s.records) == 0 {
		seed := journal.Seed(s.ids)
		s.records = []journal.Record{seed}
		slog.Info("last record deleted, synthesized seed", "identity", seed.Identity)
	}

	s.current = s.records[0].Identity
	s.nav.Navigate(s.current)
	s.sched.Notify(s.records)
	s.mu.Unlock()

	slog.Info("record deleted", "identity", identity)

	// Remote delete happens outside the lock; the canonical set is already
	// consistent and further edits must not block on the network.
	if err := s.store.Delete(ctx, identity); err != nil && !remote.IsNotFound(err) {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	return nil
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Records returns a snapshot of the canonical set, most recent first.
func (s *Session) Records() []journal.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return journal.Clone(s.records)
}

// Current returns the currently selected record.
func (s *Session) Current() (journal.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := journal.Find(s.records, s.current)
	if i < 0 {
		return journal.Record{}, false
	}
	return s.records[i], true
}

// LastError returns the most recent remote failure: a read or delete error
// captured by the session, or else the scheduler's last upsert error. Nil
// when the last remote operation of each kind succeeded. No error is fatal;
// the canonical set stays usable offline indefinitely.
func (s *Session) LastError() error {
	s.mu.Lock()
	err := s.lastErr
	s.mu.Unlock()

	if err != nil {
		return err
	}
	return s.sched.LastError()
}

// Flush forces any pending debounced sync to run now. Call before teardown.
func (s *Session) Flush(ctx context.Context) error {
	return s.sched.Flush(ctx)
}

// Close tears down the session. A pending debounced upsert is cancelled,
// never fired after teardown.
func (s *Session) Close() {
	s.sched.Close()
}

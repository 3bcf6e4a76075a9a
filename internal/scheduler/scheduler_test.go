package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalkommatt/ai-writer/internal/cache"
	"github.com/dalkommatt/ai-writer/internal/journal"
	"github.com/dalkommatt/ai-writer/internal/remote"
)

const testWindow = 50 * time.Millisecond

func newTestScheduler(t *testing.T) (*Scheduler, *remote.MemoryStore, *cache.Cache) {
	t.Helper()

	c, err := cache.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	store := remote.NewMemoryStore()
	s := New(store, c, WithWindow(testWindow))
	t.Cleanup(s.Close)

	return s, store, c
}

func rec(identity, title string) journal.Record {
	return journal.Record{
		Identity:  identity,
		MutatedAt: time.Now().UTC(),
		Title:     title,
	}
}

func TestNotify_WritesThroughToCacheImmediately(t *testing.T) {
	s, _, c := newTestScheduler(t)

	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "a")})

	// No debounce on the cache path.
	cached, err := c.Records()
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "a", cached[0].Title)
}

func TestDebounce_CoalescesBurstIntoOneUpsert(t *testing.T) {
	s, store, _ := newTestScheduler(t)

	id := "2024-01-01T00:00:00.000Z"
	for _, title := range []string{"h", "he", "hello"} {
		s.Notify([]journal.Record{rec(id, title)})
		time.Sleep(testWindow / 5)
	}

	assert.Eventually(t, func() bool { return store.Upserts() == 1 },
		time.Second, 5*time.Millisecond, "exactly one upsert after the quiet period")

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "hello", snapshot[0].Title, "only the final state is sent")

	// Silence afterwards must not produce further calls.
	time.Sleep(3 * testWindow)
	assert.Equal(t, 1, store.Upserts())
}

func TestDebounce_WindowMeasuredFromLastChange(t *testing.T) {
	s, store, _ := newTestScheduler(t)

	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "first")})
	time.Sleep(testWindow / 2)
	assert.Equal(t, 0, store.Upserts(), "no upsert before the quiet period elapses")

	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "second")})
	time.Sleep(testWindow * 3 / 4)
	assert.Equal(t, 0, store.Upserts(), "second notify restarts the window")

	assert.Eventually(t, func() bool { return store.Upserts() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestUpsertFailure_CapturedNotRolledBack(t *testing.T) {
	s, store, c := newTestScheduler(t)
	store.SetFailWrites(remote.NewTransientError("upsert", errors.New("network down")))

	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "kept")})

	assert.Eventually(t, func() bool { return s.LastError() != nil },
		time.Second, 5*time.Millisecond)
	assert.True(t, remote.IsTransient(s.LastError()))

	// Local-first: the cache still has the edit.
	cached, err := c.Records()
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "kept", cached[0].Title)

	// The next mutation's cycle is the retry, and it clears the error.
	store.SetFailWrites(nil)
	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "kept")})
	assert.Eventually(t, func() bool { return s.LastError() == nil },
		time.Second, 5*time.Millisecond)
}

func TestFlush_SendsPendingImmediately(t *testing.T) {
	s, store, _ := newTestScheduler(t)

	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "a")})
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, 1, store.Upserts())

	// The armed timer was cancelled; no second send.
	time.Sleep(3 * testWindow)
	assert.Equal(t, 1, store.Upserts())
}

func TestFlush_NoopWhenNothingPending(t *testing.T) {
	s, store, _ := newTestScheduler(t)

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 0, store.Upserts())
}

func TestClose_CancelsPendingUpsert(t *testing.T) {
	s, store, _ := newTestScheduler(t)

	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "a")})
	s.Close()

	time.Sleep(3 * testWindow)
	assert.Equal(t, 0, store.Upserts(), "pending upsert must not fire after teardown")
}

func TestNotify_AfterCloseIsIgnored(t *testing.T) {
	s, store, c := newTestScheduler(t)

	s.Close()
	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "late")})

	time.Sleep(3 * testWindow)
	assert.Equal(t, 0, store.Upserts())

	// Write-through still happened; only the remote path is closed.
	cached, err := c.Records()
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestSynchronizing_TrueDuringUpsert(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	store := &blockingStore{MemoryStore: remote.NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	s := New(store, c, WithWindow(time.Millisecond))
	t.Cleanup(s.Close)

	assert.False(t, s.Synchronizing())

	s.Notify([]journal.Record{rec("2024-01-01T00:00:00.000Z", "a")})

	<-store.entered
	assert.True(t, s.Synchronizing(), "flag set for the duration of the call")

	close(store.release)
	assert.Eventually(t, func() bool { return !s.Synchronizing() },
		time.Second, time.Millisecond)
	assert.NoError(t, s.LastError())
}

// blockingStore parks Upsert until released so tests can observe in-flight state.
type blockingStore struct {
	*remote.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Upsert(ctx context.Context, records []journal.Record) error {
	close(b.entered)
	<-b.release
	return b.MemoryStore.Upsert(ctx, records)
}

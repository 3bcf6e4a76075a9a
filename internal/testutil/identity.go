// Package testutil provides deterministic stand-ins for the wall-clock-driven
// pieces of the sync core, so tests replay identically.
package testutil

import (
	"sync"
	"time"

	"github.com/dalkommatt/ai-writer/internal/journal"
)

// FixedIdentitySource returns predetermined identities in order.
//
// Tests provide a known sequence and can then assert exact canonical-set
// contents. Generate panics once the sequence is exhausted; running out of
// identities means the test created more records than it expected to.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIdentitySource struct {
	mu         sync.Mutex
	identities []string
	idx        int
}

// NewFixedIdentitySource creates a source that yields identities in order.
//
// Example:
//
//	ids := testutil.NewFixedIdentitySource(
//		"2024-01-01T00:00:00.000Z",
//		"2024-01-02T00:00:00.000Z",
//	)
func NewFixedIdentitySource(identities ...string) *FixedIdentitySource {
	return &FixedIdentitySource{identities: identities}
}

// NewIdentity returns the next predetermined identity.
func (s *FixedIdentitySource) NewIdentity() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.identities) {
		panic("FixedIdentitySource: all identities exhausted")
	}
	id := s.identities[s.idx]
	s.idx++
	return id
}

// SteppingClock hands out strictly increasing instants one millisecond apart.
// Used where production code stamps MutatedAt with the wall clock.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SteppingClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewSteppingClock creates a clock starting at the given instant.
// The first call to Now returns exactly that instant.
func NewSteppingClock(start time.Time) *SteppingClock {
	return &SteppingClock{now: start.UTC()}
}

// Now returns the current instant and advances the clock by one millisecond.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Millisecond)
	return t
}

// FrozenIdentitySource always returns the same identity. Used to provoke
// creation-time collisions deliberately.
type FrozenIdentitySource struct {
	Identity string
}

// NewIdentity returns the frozen identity, every time.
func (s FrozenIdentitySource) NewIdentity() string {
	return s.Identity
}

var _ journal.IdentitySource = (*FixedIdentitySource)(nil)
var _ journal.IdentitySource = FrozenIdentitySource{}

package journal

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/unicode/norm"
)

// IdentityLayout is the canonical encoding of a record identity: an ISO-8601
// UTC timestamp with millisecond precision, matching what every client of the
// remote store generates.
//
// The encoding is fixed-width and UTC-only, so lexicographic order on
// identities equals chronological order. This is what makes identity usable
// as both primary key and natural sort key.
const IdentityLayout = "2006-01-02T15:04:05.000Z"

// Record is a single journal entry.
//
// Identity is assigned at creation time and never changes. MutatedAt is
// refreshed on every content change and is used exclusively for last-write-wins
// conflict resolution, never for display ordering.
type Record struct {
	Identity  string    `json:"identity"`
	MutatedAt time.Time `json:"mutated_at"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

// IdentitySource generates fresh record identities.
// Implemented by SystemIdentitySource (production) and
// testutil.FixedIdentitySource (tests).
type IdentitySource interface {
	NewIdentity() string
}

// SystemIdentitySource derives identities from the system wall clock.
//
// Two creates within the same millisecond yield the same identity; callers
// treat that collision as an idempotent navigation to the existing record,
// not an error.
type SystemIdentitySource struct{}

// NewIdentity returns the current instant encoded with IdentityLayout.
func (SystemIdentitySource) NewIdentity() string {
	return time.Now().UTC().Format(IdentityLayout)
}

// ParseIdentity decodes an identity back into the instant it encodes.
// Returns an error for anything that is not a canonical identity.
func ParseIdentity(identity string) (time.Time, error) {
	t, err := time.Parse(IdentityLayout, identity)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse identity %q: %w", identity, err)
	}
	return t, nil
}

// NormalizeInstant converts a remotely-sourced timestamp string to a UTC
// instant. Remote representations vary ("+00:00" offsets, more or fewer
// fractional digits) while denoting the same instant, so conflict resolution
// must compare instants, never strings.
func NormalizeInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// Millisecond "Z" form without full RFC 3339 offset handling.
		t, err = time.Parse(IdentityLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
		}
	}
	return t.UTC(), nil
}

// NormalizeText applies Unicode NFC normalization to user-entered text.
// Editors on different devices emit different byte sequences for the same
// visible content; normalizing on mutation keeps cross-device comparisons
// byte-equal.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}

// SortDesc sorts records in place, most recently created first.
// Identities are unique within a canonical set, so no tie-break is needed.
func SortDesc(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Identity > records[j].Identity
	})
}

// Find returns the index of the record with the given identity, or -1.
func Find(records []Record, identity string) int {
	for i := range records {
		if records[i].Identity == identity {
			return i
		}
	}
	return -1
}

// Clone returns a deep-enough copy of the record slice. Records hold only
// value fields, so a slice copy is a full snapshot.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Package selector derives "the current record" from an external identity
// reference plus fallback rules, and reports the navigation side effect the
// caller must apply when the reference is invalid or absent.
package selector

import "github.com/dalkommatt/ai-writer/internal/journal"

// Selection is the outcome of resolving an external reference against a
// canonical set.
type Selection struct {
	// Current is the record to treat as selected.
	Current journal.Record

	// NavigateTo is the identity the external routing collaborator should
	// be pointed at, or "" when the existing reference is already valid.
	NavigateTo string
}

// Select resolves ref against records, which must be non-empty and sorted
// descending by identity (the canonical-set invariants).
//
// Rules, in order:
//   - ref matches a record: that record is current, no navigation.
//   - ref is present but matches nothing: fall back to the most recent
//     record and navigate to it.
//   - ref is absent: the most recent record is current, navigate to it.
//
// Callers re-run Select whenever the set changes shape (create/delete) so
// navigation stays consistent with the set.
func Select(ref string, records []journal.Record) Selection {
	if ref != "" {
		if i := journal.Find(records, ref); i >= 0 {
			return Selection{Current: records[i]}
		}
	}
	return Selection{Current: records[0], NavigateTo: records[0].Identity}
}

// Package reconcile merges a local and a remote record set into one canonical
// set using last-write-wins conflict resolution.
//
// Merge is the startup (and sign-in) reconciliation step: the local cache and
// the remote store each hold an independent, possibly stale, copy of the
// record set, and neither is trusted directly. The merged output becomes the
// session's canonical set.
package reconcile

import (
	"log/slog"

	"github.com/dalkommatt/ai-writer/internal/journal"
)

// Merge combines a local and a remote record set into one canonical set.
//
// Rules, in order:
//  1. Both empty: return a single synthesized seed record.
//  2. Local empty: return remote unchanged (device switch - trust the store).
//  3. Remote empty: return local unchanged (store catch-up).
//  4. Per-identity conflicts resolve by MutatedAt; the remote version wins
//     only when strictly newer. Ties keep local, which is closer to the
//     user's current intent.
//  5. Remote records with no local counterpart are appended (created on
//     another device since last sync).
//
// The result is sorted descending by identity, contains each identity exactly
// once, and covers the union of both input identity sets. Merge is idempotent:
// merging the output with either input again changes nothing.
//
// MutatedAt values are compared as instants; callers normalize wire formats
// before building Records. Clock skew between devices is not compensated: a
// genuinely older edit with a later wall-clock stamp wins. Known limitation.
//
// ids is consulted only for seed synthesis, so Merge is deterministic given
// its inputs and the identity source.
func Merge(local, remote []journal.Record, ids journal.IdentitySource) []journal.Record {
	switch {
	case len(local) == 0 && len(remote) == 0:
		seed := journal.Seed(ids)
		slog.Debug("reconcile: both sides empty, synthesized seed", "identity", seed.Identity)
		return []journal.Record{seed}

	case len(local) == 0:
		slog.Debug("reconcile: no local records, adopting remote set", "count", len(remote))
		return sorted(journal.Clone(remote))

	case len(remote) == 0:
		slog.Debug("reconcile: no remote records, keeping local set", "count", len(local))
		return sorted(journal.Clone(local))
	}

	remoteByIdentity := make(map[string]journal.Record, len(remote))
	for _, r := range remote {
		remoteByIdentity[r.Identity] = r
	}

	merged := make([]journal.Record, 0, len(local)+len(remote))
	remoteWins := 0

	for _, l := range local {
		if r, ok := remoteByIdentity[l.Identity]; ok && r.MutatedAt.After(l.MutatedAt) {
			merged = append(merged, r)
			remoteWins++
		} else {
			merged = append(merged, l)
		}
		delete(remoteByIdentity, l.Identity)
	}

	// Whatever survives in the map exists only remotely.
	remoteOnly := len(remoteByIdentity)
	for _, r := range remote {
		if _, ok := remoteByIdentity[r.Identity]; ok {
			merged = append(merged, r)
		}
	}

	slog.Debug("reconcile: merged record sets",
		"local", len(local),
		"remote", len(remote),
		"remote_wins", remoteWins,
		"remote_only", remoteOnly,
		"merged", len(merged),
	)

	return sorted(merged)
}

func sorted(records []journal.Record) []journal.Record {
	journal.SortDesc(records)
	return records
}

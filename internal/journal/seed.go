package journal

// Placeholder content for the record synthesized when no records exist
// anywhere (fresh install, or the last record was deleted).
const (
	SeedTitle = "Welcome"
	SeedBody  = "Start writing, and your words will follow you everywhere."
)

// Seed builds the placeholder record for an empty canonical set.
// MutatedAt equals the identity instant: the record has never been edited.
//
// The identity comes from the caller's IdentitySource so that seed synthesis
// stays deterministic under test.
func Seed(ids IdentitySource) Record {
	identity := ids.NewIdentity()
	created, err := ParseIdentity(identity)
	if err != nil {
		// An IdentitySource that emits non-canonical identities is a
		// programming error, not a runtime condition.
		panic("journal: identity source produced non-canonical identity: " + identity)
	}
	return Record{
		Identity:  identity,
		MutatedAt: created,
		Title:     SeedTitle,
		Body:      SeedBody,
	}
}

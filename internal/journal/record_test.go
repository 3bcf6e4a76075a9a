package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemIdentitySource_CanonicalLayout(t *testing.T) {
	ids := SystemIdentitySource{}
	identity := ids.NewIdentity()

	parsed, err := ParseIdentity(identity)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
	assert.Equal(t, identity, parsed.Format(IdentityLayout), "round-trip should be lossless")
}

func TestParseIdentity_RejectsNonCanonical(t *testing.T) {
	cases := []string{
		"",
		"2024-01-01",
		"2024-01-01T00:00:00Z",            // missing millisecond precision
		"2024-01-01T00:00:00.000+00:00",   // offset form, not canonical
		"not-a-timestamp",
	}
	for _, c := range cases {
		_, err := ParseIdentity(c)
		assert.Error(t, err, "identity %q should be rejected", c)
	}
}

func TestNormalizeInstant_EquatesRepresentations(t *testing.T) {
	// Same instant in three wire formats.
	forms := []string{
		"2024-03-05T12:30:45.123Z",
		"2024-03-05T12:30:45.123+00:00",
		"2024-03-05T13:30:45.123+01:00",
	}

	want, err := NormalizeInstant(forms[0])
	require.NoError(t, err)

	for _, f := range forms[1:] {
		got, err := NormalizeInstant(f)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "%q should normalize to the same instant", f)
	}
}

func TestNormalizeInstant_Invalid(t *testing.T) {
	_, err := NormalizeInstant("yesterday")
	assert.Error(t, err)
}

func TestNormalizeText_NFC(t *testing.T) {
	// U+0065 U+0301 (combining) vs U+00E9 (precomposed).
	decomposed := "Cafe\u0301"
	precomposed := "Caf\u00e9"

	assert.NotEqual(t, precomposed, decomposed)
	assert.Equal(t, NormalizeText(precomposed), NormalizeText(decomposed))
}

func TestSortDesc(t *testing.T) {
	records := []Record{
		{Identity: "2024-01-01T00:00:00.000Z"},
		{Identity: "2024-03-01T00:00:00.000Z"},
		{Identity: "2024-02-01T00:00:00.000Z"},
	}

	SortDesc(records)

	assert.Equal(t, "2024-03-01T00:00:00.000Z", records[0].Identity)
	assert.Equal(t, "2024-02-01T00:00:00.000Z", records[1].Identity)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", records[2].Identity)
}

func TestFind(t *testing.T) {
	records := []Record{
		{Identity: "2024-02-01T00:00:00.000Z"},
		{Identity: "2024-01-01T00:00:00.000Z"},
	}

	assert.Equal(t, 1, Find(records, "2024-01-01T00:00:00.000Z"))
	assert.Equal(t, -1, Find(records, "2020-01-01T00:00:00.000Z"))
}

func TestClone_IsIndependent(t *testing.T) {
	records := []Record{{Identity: "2024-01-01T00:00:00.000Z", Title: "a"}}

	snapshot := Clone(records)
	records[0].Title = "changed"

	assert.Equal(t, "a", snapshot[0].Title)
	assert.Nil(t, Clone(nil))
}

func TestSeed(t *testing.T) {
	ids := SystemIdentitySource{}
	seed := Seed(ids)

	require.NotEmpty(t, seed.Identity)
	assert.Equal(t, SeedTitle, seed.Title)
	assert.Equal(t, SeedBody, seed.Body)

	created, err := ParseIdentity(seed.Identity)
	require.NoError(t, err)
	assert.True(t, seed.MutatedAt.Equal(created), "seed has never been edited")
}

package staples

import (
	"testing"

	"staplecheck/lib/scryfall"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestNewMetadataDefaults(t *testing.T) {
	require.Equal(t, Metadata{PercentInDecks: 100, NumCopies: 4}, NewMetadata(nil, nil))
	require.Equal(t, Metadata{PercentInDecks: 62.5, NumCopies: 4}, NewMetadata(floatPtr(62.5), nil))
	require.Equal(t, Metadata{PercentInDecks: 100, NumCopies: 2}, NewMetadata(nil, intPtr(2)))
}

func TestDedupeKeepsBestMetadata(t *testing.T) {
	bolt := scryfall.Card{ID: "id-bolt", Name: "Lightning Bolt"}
	ring := scryfall.Card{ID: "id-ring", Name: "Sol Ring"}

	merged := Dedupe([]Staple{
		{Card: bolt, Meta: &Metadata{PercentInDecks: 60, NumCopies: 4}},
		{Card: ring, Meta: nil},
		{Card: bolt, Meta: &Metadata{PercentInDecks: 95, NumCopies: 4}},
	})

	require.Len(t, merged, 2)
	require.Equal(t, "id-bolt", merged[0].Card.ID)
	require.NotNil(t, merged[0].Meta)
	require.Equal(t, float64(95), merged[0].Meta.PercentInDecks)
	require.Equal(t, "id-ring", merged[1].Card.ID)
	require.Nil(t, merged[1].Meta)
}

func TestDedupePresentMetadataBeatsAbsent(t *testing.T) {
	card := scryfall.Card{ID: "id-1", Name: "Brainstorm"}
	merged := Dedupe([]Staple{
		{Card: card, Meta: nil},
		{Card: card, Meta: &Metadata{PercentInDecks: 40, NumCopies: 4}},
	})

	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Meta)

	want := Metadata{PercentInDecks: 40, NumCopies: 4}
	if diff := cmp.Diff(want, *merged[0].Meta); diff != "" {
		t.Fatalf("unexpected metadata (-want +got):\n%s", diff)
	}
}

func TestDedupeNoSharedIds(t *testing.T) {
	staples := []Staple{
		{Card: scryfall.Card{ID: "c"}},
		{Card: scryfall.Card{ID: "a"}},
		{Card: scryfall.Card{ID: "b"}},
		{Card: scryfall.Card{ID: "a"}},
	}
	merged := Dedupe(staples)

	seen := map[string]bool{}
	for _, s := range merged {
		require.False(t, seen[s.Card.ID], "duplicate id %s", s.Card.ID)
		seen[s.Card.ID] = true
	}
	require.Len(t, merged, 3)
}

package decklist

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"staplecheck/lib/collection"

	"github.com/stretchr/testify/require"
)

func testCollection(t testing.TB, owned map[string][]string) *collection.Collection {
	col, err := collection.Open(filepath.Join(t.TempDir(), "collection.json"))
	require.NoError(t, err)
	for name, codes := range owned {
		for _, code := range codes {
			require.NoError(t, col.Add(name, code))
		}
	}
	return col
}

func TestCheck(t *testing.T) {
	col := testCollection(t, map[string][]string{
		"Lightning Bolt": {"m10", "m11"},
		"Counterspell":   {"mh2", "mh2", "mh2", "mh2"},
	})

	deck := `
Deck
4 Lightning Bolt
4x Counterspell
2 Delver of Secrets
16 Island

Sideboard
2 Delver of Secrets
`
	report, err := NewChecker(col).Check(context.Background(), strings.NewReader(deck))
	require.NoError(t, err)

	require.Equal(t, []Item{
		{Name: "Counterspell", Needed: 4, Owned: 4},
		{Name: "Delver of Secrets", Needed: 4, Owned: 0},
		{Name: "Island", Needed: 16, Owned: 16},
		{Name: "Lightning Bolt", Needed: 4, Owned: 2},
	}, report.Items)

	wishlist := report.Wishlist()
	require.Len(t, wishlist, 2)
	require.Equal(t, "Delver of Secrets", wishlist[0].Name)
	require.Equal(t, 4, wishlist[0].Missing())
	require.Equal(t, "Lightning Bolt", wishlist[1].Name)
	require.Equal(t, 2, wishlist[1].Missing())
}

func TestCheckMalformedLine(t *testing.T) {
	col := testCollection(t, nil)

	_, err := NewChecker(col).Check(context.Background(), strings.NewReader("four Lightning Bolt\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), `"four Lightning Bolt"`)

	_, err = NewChecker(col).Check(context.Background(), strings.NewReader("4\n"))
	require.Error(t, err)
}

func TestParseLine(t *testing.T) {
	testCases := []struct {
		line  string
		name  string
		count int
	}{
		{"4 Lightning Bolt", "Lightning Bolt", 4},
		{"4x Lightning Bolt", "Lightning Bolt", 4},
		{"1 Fire // Ice", "Fire // Ice", 1},
	}
	for _, test := range testCases {
		name, count, err := parseLine(test.line)
		require.NoError(t, err, test.line)
		require.Equal(t, test.name, name)
		require.Equal(t, test.count, count)
	}

	for _, line := range []string{"Lightning Bolt", "0 Lightning Bolt", "-1 Bolt", "4"} {
		_, _, err := parseLine(line)
		require.Error(t, err, line)
	}
}

func TestCheckWebPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
<html><body>
<div class="deck_line hover_tr">4 Lightning Bolt</div>
<div class="deck_line hover_tr">2 Delver of Secrets</div>
<div class="other">garbage</div>
</body></html>`)
	}))
	defer srv.Close()

	col := testCollection(t, map[string][]string{"Lightning Bolt": {"m10"}})

	report, err := NewChecker(col).CheckWebPage(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, []Item{
		{Name: "Delver of Secrets", Needed: 2, Owned: 0},
		{Name: "Lightning Bolt", Needed: 4, Owned: 1},
	}, report.Items)
}

func TestCheckWebPageEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>not a deck</body></html>")
	}))
	defer srv.Close()

	_, err := NewChecker(testCollection(t, nil)).CheckWebPage(context.Background(), srv.URL)
	require.Error(t, err)
}

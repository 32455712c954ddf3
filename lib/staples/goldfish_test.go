package staples

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"staplecheck/lib/scryfall"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const goldfishTableHtml = `
<html><body>
<table>
  <thead>
    <tr><th></th><th>Card</th><th>%</th><th>Copies</th></tr>
  </thead>
  <tbody>
    <tr><td>1</td><td><a href="/card">Lightning Bolt</a></td><td>95.2%</td><td>3.8</td></tr>
    <tr><td>2</td><td><a href="/card">Brainstorm</a></td><td>60%</td><td>4</td></tr>
    <tr><td>3</td><td><a href="/card">Mystery Card</a></td><td>n/a</td><td>n/a</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseStapleTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(goldfishTableHtml))
	require.NoError(t, err)

	rows, found := parseStapleTable(doc)
	require.True(t, found)
	require.Len(t, rows, 3)

	require.Equal(t, "Lightning Bolt", rows[0].Name)
	require.NotNil(t, rows[0].Percent)
	require.Equal(t, 95.2, *rows[0].Percent)
	require.NotNil(t, rows[0].Copies)
	require.Equal(t, 4, *rows[0].Copies, "copies are rounded up")

	require.Equal(t, "Brainstorm", rows[1].Name)
	require.Equal(t, float64(60), *rows[1].Percent)
	require.Equal(t, 4, *rows[1].Copies)

	// unparsable numbers degrade to absent, not errors
	require.Equal(t, "Mystery Card", rows[2].Name)
	require.Nil(t, rows[2].Percent)
	require.Nil(t, rows[2].Copies)
}

func TestParseStapleTableMissing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>maintenance</p></body></html>"))
	require.NoError(t, err)

	rows, found := parseStapleTable(doc)
	require.False(t, found)
	require.Empty(t, rows)
}

// fakeScryfall serves card-by-name lookups for the given cards.
func fakeScryfall(t testing.TB, cards map[string]scryfall.Card) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("exact")
		card, ok := cards[name]
		if !ok {
			http.Error(w, fmt.Sprintf(`{"object":"error","details":"no card named %q"}`, name), http.StatusNotFound)
			return
		}
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(card)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testCardResolver(t testing.TB, cards map[string]scryfall.Card) *scryfall.CardResolver {
	api := fakeScryfall(t, cards)
	client := scryfall.NewClient(scryfall.ClientOptions{BaseUrl: api.URL})
	resolver, err := scryfall.NewCardResolver(client, filepath.Join(t.TempDir(), "cards.json"), 0)
	require.NoError(t, err)
	return resolver
}

func TestGoldfishFetch(t *testing.T) {
	var pages atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		if strings.HasSuffix(r.URL.Path, "/lands") {
			// no table on this category: must warn and contribute zero rows
			fmt.Fprint(w, "<html><body>no data</body></html>")
			return
		}
		fmt.Fprint(w, goldfishTableHtml)
	}))
	defer srv.Close()

	resolver := testCardResolver(t, map[string]scryfall.Card{
		"Lightning Bolt": {ID: "id-bolt", Name: "Lightning Bolt", Colors: []scryfall.Color{scryfall.Red}},
		"Brainstorm":     {ID: "id-brainstorm", Name: "Brainstorm", Colors: []scryfall.Color{scryfall.Blue}},
		"Mystery Card":   {ID: "id-mystery", Name: "Mystery Card"},
	})
	scraper := NewGoldfishScraper(resolver, GoldfishOptions{BaseUrl: srv.URL})

	staples, err := scraper.Fetch(context.Background(), scryfall.Pauper)
	require.NoError(t, err)
	// two categories with tables, three rows each
	require.Len(t, staples, 6)
	require.EqualValues(t, 3, pages.Load())

	for _, s := range staples {
		require.NotNil(t, s.Meta)
		if s.Card.ID == "id-mystery" {
			require.Equal(t, DefaultMetadata, *s.Meta)
		}
	}
}

func TestGoldfishUnsupportedFormat(t *testing.T) {
	resolver := testCardResolver(t, nil)
	scraper := NewGoldfishScraper(resolver, GoldfishOptions{BaseUrl: "http://127.0.0.1:0"})

	_, err := scraper.Fetch(context.Background(), scryfall.Format("vintage"))
	require.Error(t, err)
}

package staples

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"staplecheck/lib/scryfall"

	"github.com/stretchr/testify/require"
)

func TestFetcherMergesSources(t *testing.T) {
	goldfishSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
<html><body><table>
  <tr><td>1</td><td>Lightning Bolt</td><td>60%</td><td>4</td></tr>
</table></body></html>`)
	}))
	defer goldfishSrv.Close()

	top8Srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("current_page") == "1" && r.Form.Get("maindeck") == "MD" {
			fmt.Fprint(w, `
<html><body><table><tr>
  <td class="L14">Lightning Bolt</td>
  <td class="L14">95 %</td>
  <td class="L14">4</td>
</tr></table></body></html>`)
			return
		}
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer top8Srv.Close()

	resolver := testCardResolver(t, map[string]scryfall.Card{
		"Lightning Bolt": {ID: "id-bolt", Name: "Lightning Bolt", Colors: []scryfall.Color{scryfall.Red}},
	})

	fetcher := Fetcher{
		Goldfish: NewGoldfishScraper(resolver, GoldfishOptions{BaseUrl: goldfishSrv.URL}),
		Top8:     NewTop8Scraper(resolver, Top8Options{BaseUrl: top8Srv.URL, PageConcurrency: 4}),
	}

	staples, err := fetcher.Fetch(context.Background(), scryfall.Pauper)
	require.NoError(t, err)

	// both sources reported the card: one entry survives with the higher
	// percent
	require.Len(t, staples, 1)
	require.Equal(t, "id-bolt", staples[0].Card.ID)
	require.NotNil(t, staples[0].Meta)
	require.Equal(t, float64(95), staples[0].Meta.PercentInDecks)
}

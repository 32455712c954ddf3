package staples

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"staplecheck/lib/scryfall"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const top8PageHtml = `
<html><body>
<table>
  <tr>
    <td class="L14"><a href="?d=1">Lightning Bolt</a></td>
    <td class="L14">78 %</td>
    <td class="L14">3.2 copies</td>
  </tr>
  <tr>
    <td class="L14">Counterspell</td>
    <td class="L14">55 %</td>
    <td class="L14">4</td>
  </tr>
</table>
</body></html>`

func TestParseTop8Cells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(top8PageHtml))
	require.NoError(t, err)

	rows := parseTop8Cells(doc)
	require.Len(t, rows, 2)

	require.Equal(t, "Lightning Bolt", rows[0].Name)
	require.NotNil(t, rows[0].Percent)
	require.Equal(t, float64(78), *rows[0].Percent)
	require.NotNil(t, rows[0].Copies)
	require.Equal(t, 4, *rows[0].Copies, "copies are rounded up")

	require.Equal(t, "Counterspell", rows[1].Name)
	require.Equal(t, float64(55), *rows[1].Percent)
	require.Equal(t, 4, *rows[1].Copies)
}

func TestParseTop8CellsEmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	require.Empty(t, parseTop8Cells(doc))
}

func TestTop8FormatCode(t *testing.T) {
	testCases := []struct {
		format   scryfall.Format
		expected string
	}{
		{scryfall.Pauper, "PAU"},
		{scryfall.Legacy, "LE"},
		{scryfall.Pioneer, "PI"},
		{scryfall.Standard, "ST"},
	}
	for _, test := range testCases {
		code, err := top8FormatCode(test.format)
		require.NoError(t, err)
		require.Equal(t, test.expected, code)
	}

	_, err := top8FormatCode(scryfall.Format("vintage"))
	require.Error(t, err)
}

func TestTop8Fetch(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "PAU", r.Form.Get("format"))
		assert.Equal(t, "1", r.Form.Get("data"))
		assert.Contains(t, []string{"MD", "SB"}, r.Form.Get("maindeck"))

		// only the first maindeck page carries results
		if r.Form.Get("current_page") == "1" && r.Form.Get("maindeck") == "MD" {
			fmt.Fprint(w, top8PageHtml)
			return
		}
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer srv.Close()

	resolver := testCardResolver(t, map[string]scryfall.Card{
		"Lightning Bolt": {ID: "id-bolt", Name: "Lightning Bolt"},
		"Counterspell":   {ID: "id-counterspell", Name: "Counterspell"},
	})
	scraper := NewTop8Scraper(resolver, Top8Options{BaseUrl: srv.URL})

	staples, err := scraper.Fetch(context.Background(), scryfall.Pauper)
	require.NoError(t, err)
	require.Len(t, staples, 2)
	require.EqualValues(t, 2*top8Pages, requests.Load(), "16 pages x 2 boards")
}

package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestTextTokens(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<table><tr>
			<td><span class="icon"></span></td>
			<td><a href="/card">  Lightning Bolt  </a></td>
			<td> 95.2% </td>
			<td>3.8</td>
		</tr></table>
	`))
	require.NoError(t, err)

	tokens := TextTokens(doc.Find("tr"))
	require.Equal(t, []string{"Lightning Bolt", "95.2%", "3.8"}, tokens)
}

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td><a>Fire</a> // <a>Ice</a></td></tr></table>`,
	))
	require.NoError(t, err)

	sel := doc.Find("td")
	require.Len(t, sel.Nodes, 1)
	require.Equal(t, "Fire // Ice", GetText(sel.Nodes[0]))
}

package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// TextTokens returns the whitespace-trimmed contents of every non-empty
// text node under the selection, in document order.
func TextTokens(sel *goquery.Selection) []string {
	var tokens []string
	for _, node := range sel.Nodes {
		collectTextTokens(node, &tokens)
	}
	return tokens
}

func collectTextTokens(node *html.Node, tokens *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		trimmed := strings.TrimSpace(node.Data)
		if trimmed != "" {
			*tokens = append(*tokens, trimmed)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		collectTextTokens(child, tokens)
		child = child.NextSibling
	}
}

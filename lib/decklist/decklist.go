// Package decklist checks a deck list against the owned-card
// collection, reporting which copies still have to be acquired. Lists
// come from a plain-text file or a deck page on mtgtop8.
package decklist

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"staplecheck/lib/cardname"
	"staplecheck/lib/collection"
	"staplecheck/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("staplecheck.lib.decklist")

// basic lands count as fully owned, nobody tracks those.
var basicLandNames = map[string]bool{
	"Plains":   true,
	"Island":   true,
	"Swamp":    true,
	"Mountain": true,
	"Forest":   true,
}

// Item is one card of the deck: how many copies the deck plays and how
// many the user owns.
type Item struct {
	Name   string
	Needed int
	Owned  int
}

// Missing is how many copies still have to be acquired.
func (i Item) Missing() int {
	return max(i.Needed-i.Owned, 0)
}

// Report lists the deck's cards in name order.
type Report struct {
	Items []Item
}

// Wishlist returns the items with missing copies.
func (r Report) Wishlist() []Item {
	var missing []Item
	for _, item := range r.Items {
		if item.Missing() > 0 {
			missing = append(missing, item)
		}
	}
	return missing
}

// Checker resolves deck lists against a collection.
type Checker struct {
	http *resty.Client
	col  *collection.Collection
}

func NewChecker(col *collection.Collection) *Checker {
	client := resty.New()
	client.SetHeader("user-agent", "staplecheck/1.0")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "decklist/http")

	return &Checker{http: client, col: col}
}

// Check reads a plain-text deck list, one "<count>[x] <name>" entry per
// line. Blank lines and the "Deck"/"Sideboard" section markers are
// skipped; any other unparsable line fails the check.
func (c *Checker) Check(ctx context.Context, r io.Reader) (Report, error) {
	_, span := tracer.Start(ctx, "decklist:Check")
	defer span.End()

	counts := map[string]int{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "Deck" || line == "Sideboard" {
			continue
		}
		name, count, err := parseLine(line)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "malformed deck list")
			return Report{}, err
		}
		counts[name] += count
	}
	err := scanner.Err()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read deck list")
		return Report{}, fmt.Errorf("read deck list: %w", err)
	}

	return c.report(counts), nil
}

// CheckWebPage scrapes the deck lines off a deck page and checks them
// like a plain-text list.
func (c *Checker) CheckWebPage(ctx context.Context, url string) (Report, error) {
	ctx, span := tracer.Start(ctx, "decklist:CheckWebPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch deck page")
		return Report{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Report{}, err
	}

	counts := map[string]int{}
	var parseErr error
	doc.Find("div.deck_line.hover_tr").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		line := strings.TrimSpace(sel.Text())
		if line == "" {
			return true
		}
		name, count, err := parseLine(line)
		if err != nil {
			parseErr = err
			return false
		}
		counts[name] += count
		return true
	})
	if parseErr != nil {
		span.RecordError(parseErr)
		span.SetStatus(codes.Error, "malformed deck page")
		return Report{}, parseErr
	}
	if len(counts) == 0 {
		err := fmt.Errorf("no deck lines found at %s", url)
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty deck page")
		return Report{}, err
	}

	return c.report(counts), nil
}

// parseLine splits a deck entry into its card name and copy count. The
// count may carry a trailing "x".
func parseLine(line string) (string, int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("malformed deck list line %q", line)
	}
	count, err := strconv.Atoi(strings.TrimSuffix(fields[0], "x"))
	if err != nil || count <= 0 {
		return "", 0, fmt.Errorf("malformed deck list line %q", line)
	}
	return strings.Join(fields[1:], " "), count, nil
}

func (c *Checker) report(counts map[string]int) Report {
	items := make([]Item, 0, len(counts))
	for name, needed := range counts {
		owned := len(c.col.Get(name))
		if basicLandNames[cardname.Normalize(name)] {
			owned = needed
		}
		items = append(items, Item{Name: name, Needed: needed, Owned: owned})
	}
	slices.SortFunc(items, func(a, b Item) int { return strings.Compare(a.Name, b.Name) })
	return Report{Items: items}
}

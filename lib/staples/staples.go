// Package staples aggregates format-staple lists from two web sources,
// resolving every scraped row against the card cache and collapsing
// duplicates across sources.
package staples

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"staplecheck/lib/scryfall"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("staplecheck.lib.staples")

// Metadata is a card's popularity in the format: the percentage of decks
// playing it and the typical number of copies.
type Metadata struct {
	PercentInDecks float64 `json:"percent_in_decks"`
	NumCopies      int     `json:"num_copies"`
}

// DefaultMetadata is assumed when a source reports a card without
// popularity figures.
var DefaultMetadata = Metadata{PercentInDecks: 100, NumCopies: 4}

// NewMetadata fills absent fields with the defaults: 100% of decks, 4
// copies.
func NewMetadata(percent *float64, copies *int) Metadata {
	meta := DefaultMetadata
	if percent != nil {
		meta.PercentInDecks = *percent
	}
	if copies != nil {
		meta.NumCopies = *copies
	}
	return meta
}

// Staple pairs a resolved card with the metadata a source reported for
// it. Meta is nil when the source listed the card without figures.
type Staple struct {
	Card scryfall.Card
	Meta *Metadata
}

// row is one parsed line of a source page, before card resolution.
type row struct {
	Name    string
	Percent *float64
	Copies  *int
}

// Fetcher runs both scrapers and merges their output.
type Fetcher struct {
	Goldfish *GoldfishScraper
	Top8     *Top8Scraper
}

// Fetch scrapes both sources concurrently and returns a deduplicated
// staple list: at most one entry per card id, keeping the best metadata.
// The first source error cancels the other scrape and fails the fetch.
func (f Fetcher) Fetch(ctx context.Context, format scryfall.Format) ([]Staple, error) {
	ctx, span := tracer.Start(ctx, "staples:Fetch")
	defer span.End()

	var fromGoldfish, fromTop8 []Staple
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		fromGoldfish, err = f.Goldfish.Fetch(ctx, format)
		return err
	})
	group.Go(func() error {
		var err error
		fromTop8, err = f.Top8.Fetch(ctx, format)
		return err
	})
	err := group.Wait()
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "all staples downloaded",
		"top8", len(fromTop8),
		"goldfish", len(fromGoldfish),
	)

	merged := append(fromTop8, fromGoldfish...)
	return Dedupe(merged), nil
}

// Dedupe sorts staples by card id and collapses runs sharing an id down
// to the entry with the best metadata (present beats absent, higher
// percent beats lower).
func Dedupe(staples []Staple) []Staple {
	slices.SortFunc(staples, func(a, b Staple) int {
		if c := strings.Compare(a.Card.ID, b.Card.ID); c != 0 {
			return c
		}
		return compareMeta(a.Meta, b.Meta)
	})
	return slices.CompactFunc(staples, func(a, b Staple) bool {
		return a.Card.ID == b.Card.ID
	})
}

func compareMeta(a, b *Metadata) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.PercentInDecks > b.PercentInDecks:
		return -1
	case a.PercentInDecks < b.PercentInDecks:
		return 1
	}
	return 0
}

// resolveRows turns parsed source rows into staples by resolving each
// name through the card cache. Concurrency is effectively bounded by the
// resolver's fetch permits.
func resolveRows(ctx context.Context, cards *scryfall.CardResolver, rows []row) ([]Staple, error) {
	staples := make([]Staple, len(rows))
	group, ctx := errgroup.WithContext(ctx)
	for i, r := range rows {
		i, r := i, r
		group.Go(func() error {
			card, err := cards.Resolve(ctx, r.Name)
			if err != nil {
				return err
			}
			meta := NewMetadata(r.Percent, r.Copies)
			staples[i] = Staple{Card: card, Meta: &meta}
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return nil, err
	}
	return staples, nil
}

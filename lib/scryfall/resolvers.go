package scryfall

import (
	"context"
	"log/slog"

	"staplecheck/lib/cachefile"
	"staplecheck/lib/cardname"
)

// CardResolver resolves cards by name through a JSON-file cache. Keys are
// normalized names, so equivalent spellings and double-faced forms share
// one entry.
type CardResolver struct {
	client *Client
	cache  *cachefile.Resolver[Card]
}

// NewCardResolver opens (or creates) the card cache at path. limit bounds
// concurrent provider fetches; 0 means cachefile.DefaultFetchLimit.
func NewCardResolver(client *Client, path string, limit int64) (*CardResolver, error) {
	cache, err := cachefile.Open[Card](path, limit)
	if err != nil {
		return nil, err
	}
	return &CardResolver{client: client, cache: cache}, nil
}

func (r *CardResolver) Resolve(ctx context.Context, name string) (Card, error) {
	key := cardname.Normalize(name)
	return r.cache.Resolve(ctx, key, func(ctx context.Context) (Card, error) {
		card, err := r.client.CardByName(ctx, key)
		if err != nil {
			return Card{}, err
		}
		slog.InfoContext(ctx, "card downloaded", "name", key)
		return card, nil
	})
}

// PrintingsResolver resolves the printings list of a card through a
// JSON-file cache keyed by the card's stable id.
type PrintingsResolver struct {
	client *Client
	cache  *cachefile.Resolver[[]Set]
}

func NewPrintingsResolver(client *Client, path string, limit int64) (*PrintingsResolver, error) {
	cache, err := cachefile.Open[[]Set](path, limit)
	if err != nil {
		return nil, err
	}
	return &PrintingsResolver{client: client, cache: cache}, nil
}

func (r *PrintingsResolver) Resolve(ctx context.Context, card Card) ([]Set, error) {
	return r.cache.Resolve(ctx, card.ID, func(ctx context.Context) ([]Set, error) {
		printings, err := r.client.Printings(ctx, card)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "printings downloaded", "name", card.Name, "count", len(printings))
		return printings, nil
	})
}

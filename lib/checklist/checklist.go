// Package checklist joins aggregated staples with printing lists and the
// user's collection, producing the ranked acquisition checklist and
// completion statistics.
package checklist

import (
	"context"
	"slices"

	"staplecheck/lib/collection"
	"staplecheck/lib/scryfall"
	"staplecheck/lib/staples"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("staplecheck.lib.checklist")

// buildConcurrency bounds how many entries are assembled at once. This
// caps collection lookups and printings resolutions in flight; provider
// fetches are additionally bounded by the resolver's own permits.
const buildConcurrency = 8

// basic lands are never worth acquiring. They are filtered by exact name
// so nonbasic cards with unusual type lines always stay in.
var basicLandNames = map[string]bool{
	"Plains":   true,
	"Island":   true,
	"Swamp":    true,
	"Mountain": true,
	"Forest":   true,
}

// Entry is one checklist line: a card, where it was printed, its
// popularity and the printings the user owns. Owned printings change
// only through the Checklist holding the entry.
type Entry struct {
	Card      scryfall.Card
	Printings []scryfall.Set
	Meta      staples.Metadata

	owned []string
}

// Owned returns a copy of the printing codes the user owns.
func (e Entry) Owned() []string {
	return slices.Clone(e.owned)
}

func (e Entry) OwnedCount() int {
	return len(e.owned)
}

// Missing is how many copies the user still needs.
func (e Entry) Missing() int {
	return max(e.Meta.NumCopies-len(e.owned), 0)
}

// Checklist is the ranked sequence of entries. It is the sole owner of
// its entries; consumers address entries by index and change ownership
// through AddOwned and RemoveOwned, which write through to the
// collection store.
type Checklist struct {
	col     *collection.Collection
	entries []Entry
}

// Build assembles a checklist from a deduplicated staple list. Named
// basic lands are dropped; every other card gets its printings resolved
// and its owned codes looked up, then the whole list is sorted by
// acquisition priority.
func Build(ctx context.Context, list []staples.Staple, printings *scryfall.PrintingsResolver, col *collection.Collection) (*Checklist, error) {
	ctx, span := tracer.Start(ctx, "checklist:Build")
	defer span.End()

	kept := make([]staples.Staple, 0, len(list))
	for _, s := range list {
		if basicLandNames[s.Card.Name] {
			continue
		}
		kept = append(kept, s)
	}

	entries := make([]Entry, len(kept))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(buildConcurrency)
	for i, s := range kept {
		i, s := i, s
		group.Go(func() error {
			prints, err := printings.Resolve(ctx, s.Card)
			if err != nil {
				return err
			}
			meta := staples.DefaultMetadata
			if s.Meta != nil {
				meta = *s.Meta
			}
			entries[i] = Entry{
				Card:      s.Card,
				Printings: prints,
				Meta:      meta,
				owned:     col.Get(s.Card.Name),
			}
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, compareEntries(missingUsingCollected))
	return &Checklist{col: col, entries: entries}, nil
}

func (c *Checklist) Len() int {
	return len(c.entries)
}

// At returns a read view of the entry at index i in acquisition order.
// Indices stay stable across ownership changes; the list is not
// re-ranked until rebuilt.
func (c *Checklist) At(i int) Entry {
	return c.entries[i]
}

// AddOwned records one owned printing of the entry at index i, persists
// it to the collection and returns the updated owned count.
func (c *Checklist) AddOwned(i int, code string) (int, error) {
	entry := &c.entries[i]
	err := c.col.Add(entry.Card.Name, code)
	if err != nil {
		return len(entry.owned), err
	}
	entry.owned = append(entry.owned, code)
	return len(entry.owned), nil
}

// RemoveOwned deletes one owned printing of the entry at index i, if
// present, and returns the updated owned count.
func (c *Checklist) RemoveOwned(i int, code string) (int, error) {
	entry := &c.entries[i]
	idx := slices.Index(entry.owned, code)
	if idx < 0 {
		return len(entry.owned), nil
	}
	err := c.col.Remove(entry.Card.Name, code)
	if err != nil {
		return len(entry.owned), err
	}
	entry.owned = slices.Delete(entry.owned, idx, idx+1)
	return len(entry.owned), nil
}

// Entries returns a copy of the checklist in acquisition order.
func (c *Checklist) Entries() []Entry {
	return slices.Clone(c.entries)
}

// IgnoringCollection returns the entries re-ranked as if nothing were
// owned. This order drives the statistics scan.
func (c *Checklist) IgnoringCollection() []Entry {
	entries := slices.Clone(c.entries)
	slices.SortFunc(entries, compareEntries(missingIgnoringCollected))
	return entries
}

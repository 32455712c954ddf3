package checklist

import (
	"cmp"
	"math"
	"strings"

	"staplecheck/lib/scryfall"
)

// missingFunc reports how many copies of an entry count as missing for
// ranking purposes.
type missingFunc func(Entry) int

func missingUsingCollected(e Entry) int {
	return max(e.Meta.NumCopies-len(e.owned), 0)
}

func missingIgnoringCollected(e Entry) int {
	return e.Meta.NumCopies
}

// compareEntries builds the checklist ordering: missing copies weighted
// by play rate first, then play rate alone, then color signature, then
// name. Both orderings share this comparator and differ only in the
// injected missing function.
func compareEntries(missing missingFunc) func(a, b Entry) int {
	return func(a, b Entry) int {
		priorityA := float64(missing(a)) * a.Meta.PercentInDecks
		priorityB := float64(missing(b)) * b.Meta.PercentInDecks
		if c := compareFloat(priorityB, priorityA); c != 0 {
			return c
		}
		if c := compareFloat(b.Meta.PercentInDecks, a.Meta.PercentInDecks); c != 0 {
			return c
		}
		if c := compareColors(a.Card, b.Card); c != 0 {
			return c
		}
		return strings.Compare(a.Card.Name, b.Card.Name)
	}
}

// compareFloat orders floats by the IEEE 754 total order, which gives
// NaN a fixed place so the sort stays deterministic for any input.
func compareFloat(a, b float64) int {
	return cmp.Compare(totalOrderKey(a), totalOrderKey(b))
}

func totalOrderKey(f float64) int64 {
	bits := int64(math.Float64bits(f))
	bits ^= int64(uint64(bits>>63) >> 1)
	return bits
}

// compareColors orders by color signature: cards with no color list at
// all sort before cards with one, then lists compare in canonical color
// order.
func compareColors(a, b scryfall.Card) int {
	colorsA, okA := a.FrontColors()
	colorsB, okB := b.FrontColors()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	return scryfall.CompareColorLists(colorsA, colorsB)
}

package checklist

import (
	"strings"

	"staplecheck/lib/scryfall"
)

// The scan stops once every color bucket is full. Lands accumulate
// incidentally and never gate the scan.
const (
	monoCutoff       = 20
	colorlessCutoff  = 20
	multicolorCutoff = 10
)

type bucket int

const (
	bucketLand bucket = iota
	bucketColorless
	bucketMono
	bucketMulticolor
)

// classify puts an entry in exactly one bucket. Lands win over color.
// Only the card's own color list counts here: transform cards carrying
// colors on their faces bucket as colorless. The ranking comparator's
// color signature is the one place face colors matter.
func classify(e Entry) (bucket, scryfall.Color) {
	if strings.Contains(e.Card.TypeLine, "Land") {
		return bucketLand, ""
	}
	colors := e.Card.Colors
	switch {
	case len(colors) == 0:
		return bucketColorless, ""
	case len(colors) == 1:
		return bucketMono, colors[0]
	}
	return bucketMulticolor, ""
}

// Progress is a completion ratio over one top-N slice: copies owned
// against copies wanted.
type Progress struct {
	Owned int
	Total int
}

func (p *Progress) count(e Entry) {
	p.Owned += min(len(e.owned), e.Meta.NumCopies)
	p.Total += e.Meta.NumCopies
}

// Stats summarizes collection completion over the most-played cards of
// the format.
type Stats struct {
	Top20  Progress
	Top50  Progress
	Top150 Progress

	Top20ByColor    map[scryfall.Color]Progress
	Top10Colorless  Progress
	Top20Multicolor Progress
	Top10Lands      Progress
}

// ComputeStats scans entries, ranked ignoring the collection, until
// every color bucket has filled up, then derives the top-N summaries
// from the scanned prefix.
func ComputeStats(entries []Entry) Stats {
	monoSeen := map[scryfall.Color]int{}
	var colorlessSeen, multicolorSeen int

	filled := func() bool {
		for _, color := range scryfall.Wubrg {
			if monoSeen[color] < monoCutoff {
				return false
			}
		}
		return colorlessSeen >= colorlessCutoff && multicolorSeen >= multicolorCutoff
	}

	var prefix []Entry
	for _, e := range entries {
		if filled() {
			break
		}
		prefix = append(prefix, e)
		switch b, color := classify(e); b {
		case bucketColorless:
			colorlessSeen++
		case bucketMono:
			monoSeen[color]++
		case bucketMulticolor:
			multicolorSeen++
		}
	}

	everything := func(Entry) bool { return true }
	stats := Stats{
		Top20:           topN(prefix, 20, everything),
		Top50:           topN(prefix, 50, everything),
		Top150:          topN(prefix, 150, everything),
		Top20ByColor:    map[scryfall.Color]Progress{},
		Top10Colorless:  topN(prefix, 10, isBucket(bucketColorless)),
		Top20Multicolor: topN(prefix, 20, isBucket(bucketMulticolor)),
		Top10Lands:      topN(prefix, 10, isBucket(bucketLand)),
	}
	for _, color := range scryfall.Wubrg {
		color := color
		stats.Top20ByColor[color] = topN(prefix, 20, func(e Entry) bool {
			b, c := classify(e)
			return b == bucketMono && c == color
		})
	}
	return stats
}

func isBucket(want bucket) func(Entry) bool {
	return func(e Entry) bool {
		b, _ := classify(e)
		return b == want
	}
}

// topN sums progress over the first n entries of the prefix matching the
// predicate.
func topN(prefix []Entry, n int, pred func(Entry) bool) Progress {
	var p Progress
	for _, e := range prefix {
		if n == 0 {
			break
		}
		if !pred(e) {
			continue
		}
		n--
		p.count(e)
	}
	return p
}

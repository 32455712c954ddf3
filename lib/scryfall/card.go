package scryfall

// Color is one of the five card colors, in Scryfall's single-letter
// encoding.
type Color string

const (
	White Color = "W"
	Blue  Color = "U"
	Black Color = "B"
	Red   Color = "R"
	Green Color = "G"
)

// Wubrg lists the five colors in their canonical order.
var Wubrg = [5]Color{White, Blue, Black, Red, Green}

var colorRank = map[Color]int{
	White: 0,
	Blue:  1,
	Black: 2,
	Red:   3,
	Green: 4,
}

// Rank returns the color's position in canonical WUBRG order. Unknown
// colors sort last.
func (c Color) Rank() int {
	rank, ok := colorRank[c]
	if !ok {
		return len(colorRank)
	}
	return rank
}

// CompareColorLists orders color lists by element-wise canonical color
// rank, shorter prefixes first.
func CompareColorLists(a, b []Color) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ra, rb := a[i].Rank(), b[i].Rank()
		if ra != rb {
			return ra - rb
		}
	}
	return len(a) - len(b)
}

type CardFace struct {
	Name   string  `json:"name"`
	Colors []Color `json:"colors,omitempty"`
}

// Card is the subset of Scryfall's card schema the pipeline relies on.
// Cards are immutable once fetched. Colors is nil when the provider omits
// the field (multi-faced cards carry colors on their faces instead);
// an empty non-nil list means colorless.
type Card struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Colors          []Color    `json:"colors,omitempty"`
	TypeLine        string     `json:"type_line,omitempty"`
	CardFaces       []CardFace `json:"card_faces,omitempty"`
	PrintsSearchURI string     `json:"prints_search_uri,omitempty"`
}

// FrontColors returns the card's primary color list, falling back to the
// first face's. The second return reports whether any list was present.
func (c Card) FrontColors() ([]Color, bool) {
	if c.Colors != nil {
		return c.Colors, true
	}
	if len(c.CardFaces) > 0 && c.CardFaces[0].Colors != nil {
		return c.CardFaces[0].Colors, true
	}
	return nil, false
}

// Set identifies one printing of a card: a set code plus its display name.
type Set struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

package scryfall

import (
	"fmt"

	"github.com/antzucaro/matchr"
)

// Format is a competitive ruleset restricting which cards are legal.
type Format string

const (
	Pauper   Format = "pauper"
	Legacy   Format = "legacy"
	Pioneer  Format = "pioneer"
	Standard Format = "standard"
)

// DefaultFormat is used when no format token is supplied.
const DefaultFormat = Pauper

var supportedFormats = []Format{Pauper, Legacy, Pioneer, Standard}

func (f Format) String() string { return string(f) }

// ParseFormat fuzzy-matches a free-text token against the supported
// format names and returns the best-scoring one. An empty token selects
// DefaultFormat.
func ParseFormat(token string) (Format, error) {
	if token == "" {
		return DefaultFormat, nil
	}

	best := Format("")
	bestScore := 0.0
	for _, format := range supportedFormats {
		score := matchr.JaroWinkler(token, string(format), true)
		if score > bestScore {
			bestScore = score
			best = format
		}
	}

	// JaroWinkler of completely unrelated strings still lands well above
	// zero; anything under this bound is not a plausible format name
	if bestScore < 0.7 {
		return "", fmt.Errorf("unknown format: %q", token)
	}
	return best, nil
}

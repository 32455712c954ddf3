// Package cardname canonicalizes card names so that every cache key and
// collection lookup converges on a single spelling.
package cardname

import "strings"

// Scryfall spells some Lord of the Rings cards with accents while the
// staple sources drop them. The table maps the unaccented spellings to
// the canonical ones.
var transliterations = map[string]string{
	"Lorien Revealed":     "Lórien Revealed",
	"Troll of Khazad-dum": "Troll of Khazad-dûm",
}

// Normalize returns the canonical form of a card name: double-faced names
// are trimmed to their front face (everything before the first '/') and
// known transliteration mismatches are fixed.
func Normalize(name string) string {
	if idx := strings.IndexByte(name, '/'); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if fixed, ok := transliterations[name]; ok {
		return fixed
	}
	return name
}

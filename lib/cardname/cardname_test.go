package cardname

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"Lorien Revealed", "Lórien Revealed"},
		{"Lórien Revealed", "Lórien Revealed"},
		{"Troll of Khazad-dum", "Troll of Khazad-dûm"},
		{"Fire // Ice", "Fire"},
		{"Fire / Ice", "Fire"},
		{"Delver of Secrets // Insectile Aberration", "Delver of Secrets"},
		{"  Lightning Bolt ", "Lightning Bolt"},
		{"Lightning Bolt", "Lightning Bolt"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Normalize(test.in), "input: %q", test.in)
	}
}

func TestNormalizeConverges(t *testing.T) {
	// equivalent spellings and faces must land on the same cache key
	require.Equal(t, Normalize("Lorien Revealed"), Normalize("Lórien Revealed"))
	require.Equal(t, Normalize("Fire"), Normalize("Fire // Ice"))
}

package scryfall

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrontColors(t *testing.T) {
	mono := Card{Colors: []Color{Red}}
	colors, ok := mono.FrontColors()
	require.True(t, ok)
	require.Equal(t, []Color{Red}, colors)

	colorless := Card{Colors: []Color{}}
	colors, ok = colorless.FrontColors()
	require.True(t, ok)
	require.Empty(t, colors)

	doubleFaced := Card{CardFaces: []CardFace{
		{Name: "Delver of Secrets", Colors: []Color{Blue}},
		{Name: "Insectile Aberration", Colors: []Color{Blue}},
	}}
	colors, ok = doubleFaced.FrontColors()
	require.True(t, ok)
	require.Equal(t, []Color{Blue}, colors)

	absent := Card{}
	_, ok = absent.FrontColors()
	require.False(t, ok)
}

func TestCompareColorLists(t *testing.T) {
	require.Less(t, CompareColorLists([]Color{White}, []Color{Blue}), 0)
	require.Less(t, CompareColorLists([]Color{Blue}, []Color{Green}), 0)
	require.Less(t, CompareColorLists([]Color{White}, []Color{White, Blue}), 0)
	require.Zero(t, CompareColorLists([]Color{Red}, []Color{Red}))
	require.Greater(t, CompareColorLists([]Color{Green}, nil), 0)
}

func TestCardColorsAbsentVsEmpty(t *testing.T) {
	var omitted Card
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Fable"}`), &omitted))
	require.Nil(t, omitted.Colors)

	var colorless Card
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Sol Ring","colors":[]}`), &colorless))
	require.NotNil(t, colorless.Colors)
	require.Empty(t, colorless.Colors)
}

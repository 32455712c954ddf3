package commands

import (
	"fmt"
	"io"
	"strings"

	"staplecheck/lib/checklist"
	"staplecheck/lib/scryfall"

	"github.com/jedib0t/go-pretty/v6/table"
)

// maxSetsShown caps how many printing codes a checklist row displays.
const maxSetsShown = 6

func formatSets(sets []scryfall.Set) string {
	codes := make([]string, 0, min(len(sets), maxSetsShown))
	for _, s := range sets[:min(len(sets), maxSetsShown)] {
		codes = append(codes, s.Code)
	}
	if len(sets) > maxSetsShown {
		codes = append(codes, fmt.Sprintf("+%d more", len(sets)-maxSetsShown))
	}
	return strings.Join(codes, " ")
}

func renderChecklist(w io.Writer, list *checklist.Checklist) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Card", "% Decks", "Copies", "Owned", "Missing", "Sets"})

	for i := 0; i < list.Len(); i++ {
		entry := list.At(i)
		t.AppendRow(table.Row{
			i + 1,
			entry.Card.Name,
			fmt.Sprintf("%.1f", entry.Meta.PercentInDecks),
			entry.Meta.NumCopies,
			entry.OwnedCount(),
			entry.Missing(),
			formatSets(entry.Printings),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func progressRow(name string, p checklist.Progress) table.Row {
	percent := 100.0
	if p.Total > 0 {
		percent = float64(p.Owned) / float64(p.Total) * 100
	}
	return table.Row{name, p.Owned, p.Total, fmt.Sprintf("%.0f%%", percent)}
}

var colorNames = map[scryfall.Color]string{
	scryfall.White: "White",
	scryfall.Blue:  "Blue",
	scryfall.Black: "Black",
	scryfall.Red:   "Red",
	scryfall.Green: "Green",
}

func renderStats(w io.Writer, stats checklist.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Slice", "Owned", "Total", "Done"})

	t.AppendRow(progressRow("Top 20", stats.Top20))
	t.AppendRow(progressRow("Top 50", stats.Top50))
	t.AppendRow(progressRow("Top 150", stats.Top150))
	t.AppendSeparator()
	for _, color := range scryfall.Wubrg {
		t.AppendRow(progressRow("Top 20 "+colorNames[color], stats.Top20ByColor[color]))
	}
	t.AppendSeparator()
	t.AppendRow(progressRow("Top 10 Colorless", stats.Top10Colorless))
	t.AppendRow(progressRow("Top 20 Multicolor", stats.Top20Multicolor))
	t.AppendRow(progressRow("Top 10 Lands", stats.Top10Lands))

	t.SetStyle(table.StyleRounded)
	t.Render()
}

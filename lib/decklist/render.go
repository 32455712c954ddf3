package decklist

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render prints the report as a table plus a wishlist of the copies
// still missing.
func (r Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Card", "Needed", "Owned", "Status"})

	for _, item := range r.Items {
		status := "ok"
		if item.Missing() > 0 {
			status = fmt.Sprintf("missing %d", item.Missing())
		}
		t.AppendRow(table.Row{item.Name, item.Needed, item.Owned, status})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	wishlist := r.Wishlist()
	if len(wishlist) == 0 {
		fmt.Fprintln(w, "deck complete")
		return
	}
	fmt.Fprintln(w, "wishlist:")
	for _, item := range wishlist {
		fmt.Fprintf(w, "  %dx %s\n", item.Missing(), item.Name)
	}
}

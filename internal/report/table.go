// Package report renders aligned text tables for pipeline summaries.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// Table accumulates rows and renders them with aligned columns. Widths
// are computed with display width so wide characters line up.
type Table struct {
	header []string
	rows   [][]string
}

// NewTable creates a table with the given header cells.
func NewTable(header ...string) *Table {
	return &Table{header: header}
}

// AddRow appends a row. Short rows are padded to the header width.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.header))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Render returns the table as a string, one line per row, with a dashed
// separator under the header.
func (t *Table) Render() string {
	widths := t.columnWidths()

	var b strings.Builder

	writeRow(&b, t.header, widths)

	separator := make([]string, len(t.header))
	for i, width := range widths {
		separator[i] = strings.Repeat("-", width)
	}
	writeRow(&b, separator, widths)

	for _, row := range t.rows {
		writeRow(&b, row, widths)
	}

	return b.String()
}

// renderRow pads each cell to its column width and strips trailing
// whitespace from the line.
func renderRow(cells []string, widths []int) string {
	var b strings.Builder

	for i, cell := range cells {
		if i > 0 {
			b.WriteString(columnGap)
		}

		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
	}

	return strings.TrimRight(b.String(), " ")
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.header))
	for i, cell := range t.header {
		widths[i] = runewidth.StringWidth(cell)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString(renderRow(cells, widths))
	b.WriteString("\n")
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tablePadding = 2

// cellPainter styles a cell's text after its column width is known.
// Row -1 is the header.
type cellPainter func(row, col int, text string) string

// writeTable aligns columns by their display width and only then applies
// paint, so escape sequences never count towards a column's width.
func writeTable(out io.Writer, headers []string, rows [][]string, paint cellPainter) error {
	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	writeRow := func(row int, cells []string) error {
		var b strings.Builder
		for i, cell := range cells {
			text := cell
			if paint != nil {
				text = paint(row, i, cell)
			}
			b.WriteString(text)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+tablePadding))
			}
		}
		_, err := fmt.Fprintln(out, b.String())
		return err
	}

	if len(headers) > 0 {
		if err := writeRow(-1, headers); err != nil {
			return err
		}
	}
	for i, row := range rows {
		if err := writeRow(i, row); err != nil {
			return err
		}
	}
	return nil
}

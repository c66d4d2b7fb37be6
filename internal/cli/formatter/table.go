package formatter

import (
	"strings"

	"github.com/alexanderramin/timereport/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line.
// Columns are padded to the widest visible cell, header included; the
// first column holds row labels and is left-aligned, the rest are
// right-aligned.
func RenderTable(t report.Table) string {
	cols := len(t.Header)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow(&b, t.Header, widths, StyleHeader)

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(&b, row, widths, StyleFg)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int, style lipgloss.Style) {
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
		if i == 0 {
			b.WriteString(style.Render(cell) + pad)
		} else {
			b.WriteString(pad + style.Render(cell))
		}
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}

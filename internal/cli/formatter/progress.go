package formatter

import (
	"strings"

	"github.com/alexanderramin/timereport/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders a fixed-width bar like ████░░░░ for frac of the width.
// Any positive fraction shows at least one filled block.
func RenderBar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	width = max(width, 2)

	filled := int(frac * float64(width))
	if filled == 0 && frac > 0 {
		filled = 1
	}
	return StyleBlue.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

// RenderChart draws one labelled bar per entry, scaled to the largest value.
func RenderChart(c report.Chart, width int) string {
	var top float64
	labelWidth := 0
	for _, bar := range c.Bars {
		top = max(top, bar.Value)
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(Bold(c.Title) + "\n")
	}
	for _, bar := range c.Bars {
		frac := 0.0
		if top > 0 {
			frac = bar.Value / top
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(bar.Label))
		b.WriteString(bar.Label + pad + "  " + RenderBar(frac, width) + "  " + Dim(bar.Text) + "\n")
	}
	return b.String()
}

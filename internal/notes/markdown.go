// Package notes renders report documents as markdown notes and publishes
// them into a notes vault.
package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timereport/internal/report"
	"github.com/charmbracelet/lipgloss"
)

// Note is a rendered document ready to publish.
type Note struct {
	Title  string
	Folder string
	Body   string
}

const barWidth = 30

// Render turns doc into a markdown note with YAML frontmatter.
func Render(doc report.Document, generated time.Time) Note {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: \"" + doc.Title + "\"\n")
	b.WriteString("period: " + doc.Period + "\n")
	b.WriteString("level: " + doc.Level.String() + "\n")
	b.WriteString("generated: " + generated.Format(time.RFC3339) + "\n")
	b.WriteString("tags:\n")
	b.WriteString("  - timereport\n")
	b.WriteString("  - " + strings.ToLower(doc.Folder()) + "\n")
	b.WriteString("---\n\n")
	b.WriteString("# " + doc.Title + "\n\n")

	if doc.Intro != "" {
		b.WriteString(doc.Intro + "\n\n")
	}
	for _, s := range doc.Sections {
		b.WriteString("## " + s.Heading + "\n\n")
		if s.Text != "" {
			b.WriteString(s.Text + "\n\n")
		}
		for _, t := range s.Tables {
			b.WriteString(MarkdownTable(t))
			b.WriteString("\n")
		}
		for _, c := range s.Charts {
			b.WriteString(TextChart(c))
			b.WriteString("\n")
		}
	}
	if doc.Ending != "" {
		b.WriteString("## " + doc.Ending + "\n")
	}

	return Note{Title: doc.Title, Folder: doc.Folder(), Body: b.String()}
}

// MarkdownTable renders t as a pipe table with columns padded to their
// widest cell.
func MarkdownTable(t report.Table) string {
	cols := len(t.Header)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Header {
		widths[i] = max(3, lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(escapeCell(row[i])))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = escapeCell(cells[i])
			}
			b.WriteString(" " + cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell)) + " |")
		}
		b.WriteString("\n")
	}

	writeRow(t.Header)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(" " + strings.Repeat("-", w) + " |")
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// TextChart renders c as a fenced block of horizontal bars scaled to the
// largest value.
func TextChart(c report.Chart) string {
	var b strings.Builder
	b.WriteString("```text\n")
	if c.Title != "" {
		b.WriteString(c.Title + "\n")
	}

	labelWidth := 0
	var peak float64
	for _, bar := range c.Bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
		peak = max(peak, bar.Value)
	}
	for _, bar := range c.Bars {
		n := 0
		if peak > 0 && bar.Value > 0 {
			n = max(1, int(bar.Value/peak*barWidth+0.5))
		}
		fmt.Fprintf(&b, "%s%s %s %s\n",
			bar.Label, strings.Repeat(" ", labelWidth-lipgloss.Width(bar.Label)),
			strings.Repeat("█", n), bar.Text)
	}
	b.WriteString("```\n")
	return b.String()
}

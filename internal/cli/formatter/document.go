package formatter

import (
	"strings"

	"github.com/alexanderramin/timereport/internal/report"
)

const chartWidth = 24

// FormatDocument renders a report document for the terminal, used when a
// report is previewed instead of published.
func FormatDocument(doc report.Document) string {
	var b strings.Builder
	b.WriteString(RenderBox(doc.Title, doc.Intro))
	b.WriteString("\n\n")

	for _, s := range doc.Sections {
		b.WriteString(Header(s.Heading))
		b.WriteString("\n")
		if s.Text != "" {
			b.WriteString(indent(Dim(s.Text), 2))
		}
		for _, t := range s.Tables {
			b.WriteString(indent(RenderTable(t), 2))
			b.WriteString("\n")
		}
		for _, c := range s.Charts {
			b.WriteString(indent(RenderChart(c, chartWidth), 2))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if doc.Ending != "" {
		b.WriteString(Bold(doc.Ending) + "\n")
	}
	return b.String()
}

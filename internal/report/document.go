// Package report composes display-ready tables, charts and whole notes
// from aggregated interval data.
package report

import (
	"errors"

	"github.com/alexanderramin/timereport/internal/domain"
)

// ErrNoData marks a section whose data has not been synced yet.
var ErrNoData = errors.New("no data yet")

// NoDataText is shown in place of a section without data.
const NoDataText = "No data yet."

// Table is a rectangular grid of preformatted cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Bar is one labelled value of a Chart. Text is the value as displayed.
type Bar struct {
	Label string
	Value float64
	Text  string
}

// Chart is a horizontal bar chart.
type Chart struct {
	Title string
	Bars  []Bar
}

// Section is one headed block of a note. Tables and charts render in
// order after Text.
type Section struct {
	Heading string
	Text    string
	Tables  []Table
	Charts  []Chart
}

// Document is a complete report note.
type Document struct {
	Title    string
	Level    domain.Level
	Period   string
	Intro    string
	Sections []Section
	Ending   string
}

// Folder is the notes folder the document belongs in.
func (d Document) Folder() string {
	if d.Level == domain.LevelDay {
		return "Diary"
	}
	return "Review"
}

package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/report"
	"github.com/stretchr/testify/assert"
)

func sampleDoc() report.Document {
	return report.Document{
		Title:  "2015 Week05 (Jan 26 - Feb 02)",
		Level:  domain.LevelWeek,
		Period: "2015W05",
		Sections: []report.Section{
			{
				Heading: "1. Group Overview",
				Tables: []report.Table{{
					Header: []string{"Group", "Time"},
					Rows:   [][]string{{"Job", "8h 0m"}, {"Rest", "56h 0m"}},
				}},
				Charts: []report.Chart{{
					Title: "Group share",
					Bars:  []report.Bar{{Label: "Job", Value: 10, Text: "10.0%"}, {Label: "Rest", Value: 20, Text: "20.0%"}},
				}},
			},
			{Heading: "5. Sleep Trends", Text: report.NoDataText},
		},
		Ending: "Have a nice week!",
	}
}

func TestRender(t *testing.T) {
	generated := time.Date(2015, 2, 2, 8, 0, 0, 0, time.UTC)

	note := Render(sampleDoc(), generated)

	assert.Equal(t, "Review", note.Folder)
	assert.True(t, strings.HasPrefix(note.Body, "---\ntitle: \"2015 Week05 (Jan 26 - Feb 02)\"\nperiod: 2015W05\nlevel: weeks\n"))
	assert.Contains(t, note.Body, "generated: 2015-02-02T08:00:00Z\n")
	assert.Contains(t, note.Body, "  - review\n")
	assert.Contains(t, note.Body, "## 1. Group Overview\n\n| Group | Time   |\n| ----- | ------ |\n| Job   | 8h 0m  |\n| Rest  | 56h 0m |\n")
	assert.Contains(t, note.Body, "## 5. Sleep Trends\n\nNo data yet.\n")
	assert.True(t, strings.HasSuffix(note.Body, "## Have a nice week!\n"))
}

func TestRender_DailyIntroGoesToDiary(t *testing.T) {
	doc := report.Document{Title: "20151011", Level: domain.LevelDay, Intro: "Today is Sunday."}

	note := Render(doc, time.Now())

	assert.Equal(t, "Diary", note.Folder)
	assert.Contains(t, note.Body, "# 20151011\n\nToday is Sunday.\n\n")
}

func TestMarkdownTable_EscapesPipes(t *testing.T) {
	out := MarkdownTable(report.Table{Header: []string{"Task"}, Rows: [][]string{{"a|b"}}})
	assert.Equal(t, "| Task |\n| ---- |\n| a\\|b |\n", out)
}

func TestMarkdownTable_NoHeader(t *testing.T) {
	assert.Empty(t, MarkdownTable(report.Table{}))
}

func TestTextChart_ScalesToPeak(t *testing.T) {
	out := TextChart(report.Chart{Bars: []report.Bar{
		{Label: "Job", Value: 10, Text: "10h"},
		{Label: "Rest", Value: 20, Text: "20h"},
		{Label: "Fun", Value: 0, Text: "0m"},
	}})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "```text", lines[0])
	assert.Equal(t, "Job  "+strings.Repeat("█", 15)+" 10h", lines[1])
	assert.Equal(t, "Rest "+strings.Repeat("█", 30)+" 20h", lines[2])
	assert.Equal(t, "Fun   0m", lines[3])
	assert.Equal(t, "```", lines[4])
}

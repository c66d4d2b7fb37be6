package formatter

import (
	"fmt"

	"github.com/alexanderramin/timereport/internal/app"
	"github.com/alexanderramin/timereport/internal/timeutil"
)

// FormatSyncStatus is the one-line summary of a store sync.
func FormatSyncStatus(res *app.SyncResult, cal *timeutil.Calendar) string {
	line := fmt.Sprintf("%s %s: %d types, %d intervals fetched, %d stored",
		StyleGreen.Render("✓"), res.Mode, res.Types, res.Intervals, res.Stored)
	if res.Groups > 0 {
		line += fmt.Sprintf(" in %d groups", res.Groups)
	}
	if res.LastEnd > 0 {
		line += Dim(fmt.Sprintf(" (latest %s)", cal.Time(res.LastEnd).Format("2006-01-02 15:04")))
	}
	return line + "\n"
}

// FormatReportStatus is the one-line summary of a generated report.
func FormatReportStatus(res *app.ReportResult) string {
	if res.Location == "" {
		return fmt.Sprintf("%s %s %s\n", StyleYellow.Render("○"), res.Document.Title, Dim("(dry run, not published)"))
	}
	return fmt.Sprintf("%s %s → %s\n", StyleGreen.Render("✓"), res.Document.Title, res.Location)
}

// FormatError is the status line of a failed run.
func FormatError(err error) string {
	return fmt.Sprintf("%s %v\n", StyleRed.Render("✗"), err)
}

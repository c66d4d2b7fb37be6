// Package app holds the use-case ports and request/response types shared
// by the CLI and the services behind it.
package app

import (
	"fmt"

	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/report"
)

// SyncMode selects how much of the store a sync replaces.
type SyncMode int

const (
	// SyncIncremental upserts the recent intervals and all types.
	SyncIncremental SyncMode = 0
	// SyncRebuild empties the store and reloads everything.
	SyncRebuild SyncMode = 1
)

// ParseSyncMode converts the numeric --update flag.
func ParseSyncMode(n int) (SyncMode, error) {
	switch SyncMode(n) {
	case SyncIncremental, SyncRebuild:
		return SyncMode(n), nil
	default:
		return 0, fmt.Errorf("invalid update mode %d (want 0=incremental, 1=rebuild)", n)
	}
}

func (m SyncMode) String() string {
	if m == SyncRebuild {
		return "rebuild"
	}
	return "update"
}

type SyncRequest struct {
	Mode SyncMode
}

type SyncResult struct {
	Mode      SyncMode
	Types     int
	Intervals int
	// From and To bound the fetched interval range; zero for a rebuild.
	From int64
	To   int64
	// Stored is the interval count after the sync, Groups the number of
	// stored groups and LastEnd the latest stored interval end (zero when
	// the store is empty).
	Stored  int
	Groups  int
	LastEnd int64
}

type ReportRequest struct {
	Level domain.Level
	// Date is a period token matching Level; empty selects the last
	// complete period.
	Date string
	// DryRun builds the document without publishing it.
	DryRun bool
}

type ReportResult struct {
	Document report.Document
	// Location is where the note was published; empty on a dry run.
	Location string
}

// Package aggregator turns raw interval entries into window-clipped,
// period-aligned entries and grouped duration statistics.
package aggregator

import (
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/timeutil"
)

// Clip trims the first and last entries so no duration falls outside w.
// Entries must be ordered by end time and overlap w; the result is a new
// slice and the input is left untouched.
func Clip(entries []domain.Entry, w timeutil.Window) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	copy(out, entries)
	if len(out) == 0 {
		return out
	}
	if out[0].From < w.Start {
		out[0] = out[0].WithFrom(w.Start)
	}
	last := len(out) - 1
	if out[last].To > w.End {
		out[last] = out[last].WithTo(w.End)
	}
	return out
}

// Split cuts every entry that strictly contains a breakpoint into adjacent
// pieces at each such breakpoint. Entries and breakpoints are both walked
// in ascending order with one cursor each. A breakpoint equal to an entry's
// end is consumed without splitting, and breakpoints falling in gaps
// between entries are skipped. Each output entry's Period is set from its
// start via label; a nil label leaves Period empty.
func Split(entries []domain.Entry, breakpoints []int64, label func(int64) string) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries)+len(breakpoints))
	tag := func(e domain.Entry) domain.Entry {
		if label != nil {
			e.Period = label(e.From)
		}
		return e
	}

	j := 0
	for _, e := range entries {
		for j < len(breakpoints) && breakpoints[j] <= e.From {
			j++
		}
		for j < len(breakpoints) && breakpoints[j] < e.To {
			out = append(out, tag(e.WithTo(breakpoints[j])))
			e = e.WithFrom(breakpoints[j])
			j++
		}
		if j < len(breakpoints) && breakpoints[j] == e.To {
			j++
		}
		out = append(out, tag(e))
	}
	return out
}

// Cut clips entries to w and splits them at the level's period boundaries,
// tagging each piece with its period label. LevelNone only clips.
func Cut(entries []domain.Entry, w timeutil.Window, level domain.Level, cal *timeutil.Calendar) []domain.Entry {
	clipped := Clip(entries, w)
	if level == domain.LevelNone {
		return Split(clipped, nil, nil)
	}
	return Split(clipped, cal.Breakpoints(w, level), cal.Labeler(level))
}

// TotalSeconds sums entry durations.
func TotalSeconds(entries []domain.Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Delta
	}
	return total
}

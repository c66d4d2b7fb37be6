package report

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/timeutil"
)

// CompareSleep contrasts the latest sleep with the one before it and
// ranks it within the whole series. entries are the sleeps ending in the
// comparison range, ordered by end time. When requested is not empty the
// latest sleep must have ended on that day.
//
// A sync that lags more than a day also yields ErrNoData: the check cannot
// tell "not synced yet" apart from "did not sleep".
func CompareSleep(entries []domain.Entry, requested string, rangeDays int, cal *timeutil.Calendar) (Table, error) {
	if len(entries) < 2 {
		return Table{}, ErrNoData
	}
	last, prev := entries[len(entries)-1], entries[len(entries)-2]
	if requested != "" && cal.Label(last.To, domain.LevelDay) != requested {
		return Table{}, ErrNoData
	}

	beds := make([]float64, len(entries))
	ups := make([]float64, len(entries))
	lengths := make([]float64, len(entries))
	for i, e := range entries {
		beds[i] = float64(cal.SleepTimeOfDay(e.From))
		ups[i] = float64(cal.SleepTimeOfDay(e.To))
		lengths[i] = float64(e.Delta)
	}

	return Table{
		Header: []string{"", "Today", "v.s Yesterday", fmt.Sprintf("In %d days", rangeDays)},
		Rows: [][]string{
			{
				"Bed Time",
				cal.HourMinute(last.From),
				timeutil.DurationString(cal.SleepTimeOfDay(last.From)-cal.SleepTimeOfDay(prev.From), true),
				rank(averageRank(beds)),
			},
			{
				"Up Time",
				cal.HourMinute(last.To),
				timeutil.DurationString(cal.SleepTimeOfDay(last.To)-cal.SleepTimeOfDay(prev.To), true),
				rank(averageRank(ups)),
			},
			{
				"Length",
				timeutil.DurationString(last.Delta, false),
				timeutil.DurationString(last.Delta-prev.Delta, true),
				rank(averageRank(lengths)),
			},
		},
	}, nil
}

// averageRank is the ascending 1-based rank of the last value, ties
// sharing the mean of their positions, truncated to an integer.
func averageRank(values []float64) int {
	v := values[len(values)-1]
	var less, equal int
	for _, x := range values {
		switch {
		case x < v:
			less++
		case x == v:
			equal++
		}
	}
	return int(float64(less) + float64(equal+1)/2)
}

// Night is one night of sleep, possibly made of several intervals.
type Night struct {
	Date  string
	From  int64
	To    int64
	Delta int64
}

// SleepNights folds sleep entries into nights. Sleep starting at 19:00 or
// later counts towards the next day. Durations of the same night are
// summed; From and To come from its last interval.
func SleepNights(entries []domain.Entry, cal *timeutil.Calendar) []Night {
	byDate := make(map[string]*Night)
	var order []string
	for _, e := range entries {
		start := cal.Time(e.From)
		if start.Hour() >= 19 {
			start = start.AddDate(0, 0, 1)
		}
		date := start.Format("20060102")

		n, ok := byDate[date]
		if !ok {
			n = &Night{Date: date}
			byDate[date] = n
			order = append(order, date)
		}
		n.From, n.To = e.From, e.To
		n.Delta += e.Delta
	}

	sort.Strings(order)
	nights := make([]Night, 0, len(order))
	for _, d := range order {
		nights = append(nights, *byDate[d])
	}
	return nights
}

// SleepTrend tabulates nights and charts their lengths in hours.
func SleepTrend(nights []Night, cal *timeutil.Calendar) (Table, Chart) {
	t := Table{Header: []string{"Date", "Bed Time", "Up Time", "Length"}}
	c := Chart{Title: "Sleep length (h)"}
	for _, n := range nights {
		t.Rows = append(t.Rows, []string{n.Date, cal.HourMinute(n.From), cal.HourMinute(n.To), timeutil.DurationString(n.Delta, false)})
		c.Bars = append(c.Bars, Bar{Label: n.Date, Value: hours(float64(n.Delta)), Text: timeutil.DurationString(n.Delta, false)})
	}
	return t, c
}

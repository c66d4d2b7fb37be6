// Package timeutil converts between unix timestamps, local calendar dates and
// the day/week/month report periods, all anchored to one fixed timezone.
package timeutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timereport/internal/domain"
)

var (
	// ErrBadToken is returned when a period token does not match its level's format.
	ErrBadToken = errors.New("invalid period token")

	// ErrBadExpression is returned for relative range phrases outside the vocabulary.
	ErrBadExpression = errors.New("invalid range expression")
)

// Window is a half-open [Start, End) range of unix seconds.
type Window struct {
	Start int64
	End   int64
}

// Calendar resolves period boundaries in a fixed location.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar creates a Calendar for loc using the wall clock.
// A nil loc falls back to UTC.
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, now: time.Now}
}

// WithClock returns a copy of c that reads "now" from the given function.
func (c *Calendar) WithClock(now func() time.Time) *Calendar {
	cp := *c
	cp.now = now
	return &cp
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current time in the calendar's timezone.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Time converts a unix timestamp to local time.
func (c *Calendar) Time(ts int64) time.Time {
	return time.Unix(ts, 0).In(c.loc)
}

// Floor returns the start of the period containing t.
func (c *Calendar) Floor(t time.Time, level domain.Level) time.Time {
	t = t.In(c.loc)
	y, m, d := t.Date()
	switch level {
	case domain.LevelWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, c.loc)
	case domain.LevelMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, c.loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
	}
}

// shift moves a period start by n periods. t must already be floored.
func shift(t time.Time, level domain.Level, n int) time.Time {
	switch level {
	case domain.LevelWeek:
		return t.AddDate(0, 0, 7*n)
	case domain.LevelMonth:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

// Breakpoints returns the period starts strictly inside the window, in
// ascending order. It is empty when the window lies within one period or
// level is LevelNone.
func (c *Calendar) Breakpoints(w Window, level domain.Level) []int64 {
	if level == domain.LevelNone || w.End <= w.Start {
		return nil
	}
	var points []int64
	t := shift(c.Floor(c.Time(w.Start), level), level, 1)
	for t.Unix() < w.End {
		points = append(points, t.Unix())
		t = shift(t, level, 1)
	}
	return points
}

// Label names the period containing ts: "20060102" for days, ISO
// "2006W05" for weeks and "2006M01" for months.
func (c *Calendar) Label(ts int64, level domain.Level) string {
	t := c.Time(ts)
	switch level {
	case domain.LevelDay:
		return t.Format("20060102")
	case domain.LevelWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%dW%02d", y, w)
	case domain.LevelMonth:
		return fmt.Sprintf("%dM%02d", t.Year(), int(t.Month()))
	default:
		return ""
	}
}

// Labeler returns Label bound to a level.
func (c *Calendar) Labeler(level domain.Level) func(int64) string {
	return func(ts int64) string {
		return c.Label(ts, level)
	}
}

// LabelsFor lists the labels of every period touched by the window:
// the window start followed by each breakpoint.
func (c *Calendar) LabelsFor(w Window, level domain.Level) []string {
	if level == domain.LevelNone {
		return []string{""}
	}
	labels := []string{c.Label(w.Start, level)}
	for _, bp := range c.Breakpoints(w, level) {
		labels = append(labels, c.Label(bp, level))
	}
	return labels
}

// DayCount returns the number of calendar days the window touches.
func (c *Calendar) DayCount(w Window) int {
	if w.End <= w.Start {
		return 0
	}
	return len(c.Breakpoints(w, domain.LevelDay)) + 1
}

// HourMinute formats ts as local "15:04".
func (c *Calendar) HourMinute(ts int64) string {
	return c.Time(ts).Format("15:04")
}

// SleepTimeOfDay maps ts to seconds since a virtual day boundary at 20:00
// local, so bedtimes either side of midnight sort on one scale.
func (c *Calendar) SleepTimeOfDay(ts int64) int64 {
	t := c.Time(ts)
	h := t.Hour()
	if h < 20 {
		h += 24
	}
	return int64(h*3600 + t.Minute()*60 + t.Second())
}

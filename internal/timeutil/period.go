package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/timereport/internal/domain"
)

var (
	weekTokenRe  = regexp.MustCompile(`^(\d{4})W(\d{2})$`)
	monthTokenRe = regexp.MustCompile(`^(\d{4})M(\d{2})$`)
)

// PeriodBounds parses a level-specific token into its window:
// "YYYYMMDD" for days, "YYYYWww" for ISO weeks and "YYYYMmm" for months.
// Month windows are week-aligned, see WeekOfMonth.
func (c *Calendar) PeriodBounds(token string, level domain.Level) (Window, error) {
	switch level {
	case domain.LevelDay:
		t, err := time.ParseInLocation("20060102", token, c.loc)
		if err != nil {
			return Window{}, fmt.Errorf("%w: day %q, want YYYYMMDD", ErrBadToken, token)
		}
		return Window{Start: t.Unix(), End: t.AddDate(0, 0, 1).Unix()}, nil
	case domain.LevelWeek:
		monday, err := c.parseWeek(token)
		if err != nil {
			return Window{}, err
		}
		return Window{Start: monday.Unix(), End: monday.AddDate(0, 0, 7).Unix()}, nil
	case domain.LevelMonth:
		m := monthTokenRe.FindStringSubmatch(token)
		if m == nil {
			return Window{}, fmt.Errorf("%w: month %q, want YYYYMmm", ErrBadToken, token)
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Window{}, fmt.Errorf("%w: month %q out of range", ErrBadToken, token)
		}
		return c.WeekOfMonth(year, time.Month(month)), nil
	default:
		return Window{}, fmt.Errorf("%w: unsupported level %d", ErrBadToken, level)
	}
}

func (c *Calendar) parseWeek(token string) (time.Time, error) {
	m := weekTokenRe.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: week %q, want YYYYWww", ErrBadToken, token)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("%w: week %q out of range", ErrBadToken, token)
	}
	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, c.loc)
	monday := c.Floor(jan4, domain.LevelWeek).AddDate(0, 0, 7*(week-1))
	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("%w: %d has no week %d", ErrBadToken, year, week)
	}
	return monday, nil
}

// WeekOfMonth returns the week-aligned window for a month: from the Monday
// of the ISO week containing the month's 4th day to the Monday of the week
// containing the next month's 4th. Consecutive months tile without gaps.
func (c *Calendar) WeekOfMonth(year int, month time.Month) Window {
	start := c.Floor(time.Date(year, month, 4, 0, 0, 0, 0, c.loc), domain.LevelWeek)
	end := c.Floor(time.Date(year, month+1, 4, 0, 0, 0, 0, c.loc), domain.LevelWeek)
	return Window{Start: start.Unix(), End: end.Unix()}
}

// MonthBounds returns the plain calendar month window.
func (c *Calendar) MonthBounds(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	return Window{Start: start.Unix(), End: start.AddDate(0, 1, 0).Unix()}
}

// RelativeRange parses "this|these|last <n> day(s)|week(s)|month(s)".
// "this n weeks" covers the current partial week plus the n-1 before it;
// "last n weeks" covers the n complete weeks before the current one.
func (c *Calendar) RelativeRange(expr string) (Window, error) {
	fields := strings.Fields(strings.ToLower(expr))
	if len(fields) != 3 {
		return Window{}, fmt.Errorf("%w: %q", ErrBadExpression, expr)
	}

	var current bool
	switch fields[0] {
	case "this", "these":
		current = true
	case "last":
		current = false
	default:
		return Window{}, fmt.Errorf("%w: %q must start with this or last", ErrBadExpression, expr)
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return Window{}, fmt.Errorf("%w: %q needs a positive count", ErrBadExpression, expr)
	}

	var level domain.Level
	switch strings.TrimSuffix(fields[2], "s") {
	case "day":
		level = domain.LevelDay
	case "week":
		level = domain.LevelWeek
	case "month":
		level = domain.LevelMonth
	default:
		return Window{}, fmt.Errorf("%w: unknown unit %q", ErrBadExpression, fields[2])
	}

	last := c.Floor(c.Now(), level)
	if !current {
		last = shift(last, level, -1)
	}
	first := shift(last, level, -(n - 1))
	return Window{Start: first.Unix(), End: shift(last, level, 1).Unix()}, nil
}

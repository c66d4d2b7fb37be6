package timeutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timereport/internal/domain"
)

// DurationString formats seconds as "<d>d <h>h <m>m". Leading zero
// components are dropped; minutes are always shown. With withSign the
// result carries a leading "+" or "-".
func DurationString(seconds int64, withSign bool) string {
	negative := seconds < 0
	if negative {
		seconds = -seconds
	}
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))
	s := strings.Join(parts, " ")

	if withSign {
		if negative {
			return "-" + s
		}
		return "+" + s
	}
	return s
}

// Ordinal returns n with its English suffix, e.g. 1st, 12th, 23rd.
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// DayInfo describes the day containing ts, used as the daily note intro.
func (c *Calendar) DayInfo(ts int64) string {
	t := c.Floor(c.Time(ts), domain.LevelDay)
	_, week := t.ISOWeek()
	nextYear := time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, c.loc)
	left := int(nextYear.Sub(t).Hours()/24+0.5) - 1

	tail := fmt.Sprintf("There are %d days left in the year.", left)
	if left <= 1 {
		tail = fmt.Sprintf("There is %d day left in the year.", left)
	}
	return fmt.Sprintf("Today is %s, %s. %02d, Week %d, the %s day of %d. %s",
		t.Format("Monday"), t.Format("Jan"), t.Day(), week, Ordinal(t.YearDay()), t.Year(), tail)
}

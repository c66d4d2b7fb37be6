package domain

import "fmt"

// Level is a report granularity.
type Level int

const (
	LevelNone  Level = -1
	LevelDay   Level = 0
	LevelWeek  Level = 1
	LevelMonth Level = 2
)

// ParseLevel converts the numeric CLI level into a Level.
func ParseLevel(n int) (Level, error) {
	switch Level(n) {
	case LevelDay, LevelWeek, LevelMonth:
		return Level(n), nil
	default:
		return LevelNone, fmt.Errorf("invalid level %d (want 0=day, 1=week, 2=month)", n)
	}
}

// String returns the plural unit name ("days", "weeks", "months").
func (l Level) String() string {
	switch l {
	case LevelDay:
		return "days"
	case LevelWeek:
		return "weeks"
	case LevelMonth:
		return "months"
	default:
		return "none"
	}
}

// Unit returns the singular unit name.
func (l Level) Unit() string {
	switch l {
	case LevelDay:
		return "day"
	case LevelWeek:
		return "week"
	case LevelMonth:
		return "month"
	default:
		return ""
	}
}

// Finer returns the level one step below l, used for trend breakdowns.
// Days have no finer level.
func (l Level) Finer() Level {
	switch l {
	case LevelWeek:
		return LevelDay
	case LevelMonth:
		return LevelWeek
	default:
		return LevelNone
	}
}

package domain

import "fmt"

// Interval is one recorded [From, To) span of activity, in unix seconds.
type Interval struct {
	ID         string
	TypeID     string
	From       int64
	To         int64
	Delta      int64
	Comment    *string
	ActivityID string
}

// Normalize recomputes Delta from the interval bounds.
func (i *Interval) Normalize() {
	i.Delta = i.To - i.From
}

// Validate rejects intervals that end before they start.
func (i *Interval) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("interval: missing id")
	}
	if i.From > i.To {
		return fmt.Errorf("interval %s: start %d after end %d", i.ID, i.From, i.To)
	}
	return nil
}

// Entry is an interval joined with its type and group names. Entries are
// working copies; the aggregator derives new ones and never writes back.
type Entry struct {
	IntervalID string
	From       int64
	To         int64
	Delta      int64
	Type       string
	Group      string
	Comment    string
	Period     string
}

// WithFrom returns a copy starting at from, with Delta recomputed.
func (e Entry) WithFrom(from int64) Entry {
	e.From = from
	e.Delta = e.To - e.From
	return e
}

// WithTo returns a copy ending at to, with Delta recomputed.
func (e Entry) WithTo(to int64) Entry {
	e.To = to
	e.Delta = e.To - e.From
	return e
}

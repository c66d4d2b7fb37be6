package aggregator

import (
	"sort"
	"strings"

	"github.com/alexanderramin/timereport/internal/domain"
)

// KeyFunc extracts the grouping key of an entry. An empty key excludes
// the entry from grouping.
type KeyFunc func(domain.Entry) string

// ByType groups by type name.
func ByType(e domain.Entry) string { return e.Type }

// ByGroup groups by group name.
func ByGroup(e domain.Entry) string { return e.Group }

// keySep joins the parts of a composite key.
const keySep = "\x1f"

// Composite keys entries on several parts at once. An entry is excluded
// when any part is empty. SplitKey recovers the parts.
func Composite(parts ...KeyFunc) KeyFunc {
	return func(e domain.Entry) string {
		vals := make([]string, len(parts))
		for i, part := range parts {
			if vals[i] = part(e); vals[i] == "" {
				return ""
			}
		}
		return strings.Join(vals, keySep)
	}
}

// SplitKey returns the parts of a key built by Composite.
func SplitKey(key string) []string { return strings.Split(key, keySep) }

// ByComment groups by interval comment; uncommented entries are excluded.
func ByComment(e domain.Entry) string { return e.Comment }

// Bucket is the summary of one (period, key) cell.
type Bucket struct {
	Period string
	Key    string
	Summary
}

// ByKey summarises entries per key, ordered by key.
func ByKey(entries []domain.Entry, key KeyFunc) []Bucket {
	accs := make(map[string]Accumulator)
	for _, e := range entries {
		k := key(e)
		if k == "" {
			continue
		}
		acc, ok := accs[k]
		if !ok {
			acc = NewAccumulator()
			accs[k] = acc
		}
		acc.Add(e.Delta)
	}

	keys := make([]string, 0, len(accs))
	for k := range accs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, Bucket{Key: k, Summary: accs[k].Summary()})
	}
	return buckets
}

// ByPeriod summarises entries per (Period, key) over the full product of
// periods and keys, in that order. Cells without entries are zero-filled.
// When keys is nil the distinct keys found in entries are used. Entries
// whose period or key is not listed are ignored.
func ByPeriod(entries []domain.Entry, periods, keys []string, key KeyFunc) []Bucket {
	if keys == nil {
		keys = UniqueKeys(entries, key)
	}

	type cell struct{ period, key string }
	accs := make(map[cell]Accumulator)
	for _, e := range entries {
		c := cell{e.Period, key(e)}
		acc, ok := accs[c]
		if !ok {
			acc = NewAccumulator()
			accs[c] = acc
		}
		acc.Add(e.Delta)
	}

	buckets := make([]Bucket, 0, len(periods)*len(keys))
	for _, p := range periods {
		for _, k := range keys {
			b := Bucket{Period: p, Key: k}
			if acc, ok := accs[cell{p, k}]; ok {
				b.Summary = acc.Summary()
			}
			buckets = append(buckets, b)
		}
	}
	return buckets
}

// UniqueKeys returns the distinct non-empty keys in order of first appearance.
func UniqueKeys(entries []domain.Entry, key KeyFunc) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, e := range entries {
		k := key(e)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

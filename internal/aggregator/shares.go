package aggregator

import (
	"sort"

	"github.com/alexanderramin/timereport/internal/domain"
)

// TotalType is the pseudo-type that carries a group's own aggregate.
const TotalType = "_Total"

// Share is the portion of tracked time spent on one type within a window.
type Share struct {
	Group string
	Type  string
	Sum   int64
	// OfTotal is Sum as a fraction of the grand total.
	OfTotal float64
	// OfGroup is Sum as a fraction of the group's total.
	OfGroup float64
	// PerDay is Sum averaged over the window's days.
	PerDay float64
}

// IsTotal reports whether the share is a group's _Total row.
func (s Share) IsTotal() bool { return s.Type == TotalType }

// Shares sums entries per (group, type) and adds a _Total row for every
// group. Rows are ordered by group, then by descending Sum, so each
// group's _Total comes first. days below one is treated as one.
func Shares(entries []domain.Entry, days int) []Share {
	if days < 1 {
		days = 1
	}

	type pair struct{ group, typ string }
	sums := make(map[pair]int64)
	groups := make(map[string]int64)
	var total int64
	for _, e := range entries {
		sums[pair{e.Group, e.Type}] += e.Delta
		groups[e.Group] += e.Delta
		total += e.Delta
	}
	for g, sum := range groups {
		sums[pair{g, TotalType}] = sum
	}

	shares := make([]Share, 0, len(sums))
	for p, sum := range sums {
		s := Share{
			Group:  p.group,
			Type:   p.typ,
			Sum:    sum,
			PerDay: float64(sum) / float64(days),
		}
		if total > 0 {
			s.OfTotal = float64(sum) / float64(total)
		}
		if g := groups[p.group]; g > 0 {
			s.OfGroup = float64(sum) / float64(g)
		}
		shares = append(shares, s)
	}

	sort.Slice(shares, func(i, j int) bool {
		a, b := shares[i], shares[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.IsTotal() != b.IsTotal() {
			return a.IsTotal()
		}
		if a.Sum != b.Sum {
			return a.Sum > b.Sum
		}
		return a.Type < b.Type
	})
	return shares
}

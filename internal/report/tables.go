package report

import (
	"sort"
	"strconv"

	"github.com/alexanderramin/timereport/internal/aggregator"
	"github.com/alexanderramin/timereport/internal/domain"
)

// orderOf looks a name up in a display-order map; unknown names sort last.
func orderOf(orders map[string]int, name string) int {
	if o, ok := orders[name]; ok {
		return o
	}
	return int(^uint(0) >> 1)
}

// GroupOverview lists every group's total followed by its types, groups
// in display order and types by descending time, and charts the group
// shares of the whole window.
func GroupOverview(shares []aggregator.Share, groupOrder map[string]int) (Table, Chart) {
	rows := make([]aggregator.Share, len(shares))
	copy(rows, shares)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Group != b.Group {
			oa, ob := orderOf(groupOrder, a.Group), orderOf(groupOrder, b.Group)
			if oa != ob {
				return oa < ob
			}
			return a.Group < b.Group
		}
		if a.IsTotal() != b.IsTotal() {
			return a.IsTotal()
		}
		return a.Sum > b.Sum
	})

	t := Table{Header: []string{"Group", "Type", "Time", "Pct", "In Group", "Day Avg"}}
	c := Chart{Title: "Group share"}
	for _, s := range rows {
		t.Rows = append(t.Rows, []string{s.Group, s.Type, dur(float64(s.Sum)), pct(s.OfTotal), pct(s.OfGroup), dur(s.PerDay)})
		if s.IsTotal() {
			c.Bars = append(c.Bars, Bar{Label: s.Group, Value: s.OfTotal * 100, Text: pct(s.OfTotal)})
		}
	}
	return t, c
}

// TypeDetail describes every type's intervals within the window. Rows are
// ordered by the group display order, then descending total. typeOrder
// maps type name to its group's display order.
func TypeDetail(entries []domain.Entry, typeOrder map[string]int, days int) Table {
	if days < 1 {
		days = 1
	}

	groupSums := make(map[string]float64)
	var total float64
	for _, e := range entries {
		groupSums[e.Group] += float64(e.Delta)
		total += float64(e.Delta)
	}

	type row struct {
		group, typ string
		aggregator.Summary
	}
	var rows []row
	for _, b := range aggregator.ByKey(entries, aggregator.Composite(aggregator.ByGroup, aggregator.ByType)) {
		parts := aggregator.SplitKey(b.Key)
		rows = append(rows, row{parts[0], parts[1], b.Summary})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := orderOf(typeOrder, rows[i].typ), orderOf(typeOrder, rows[j].typ)
		if oi != oj {
			return oi < oj
		}
		if rows[i].Sum != rows[j].Sum {
			return rows[i].Sum > rows[j].Sum
		}
		return rows[i].typ < rows[j].typ
	})

	t := Table{Header: []string{"Group", "Type", "Pct", "In Pct", "Int", "Sum", "Int Avg", "Day Avg", "Std", "Median", "Min", "Max"}}
	for _, r := range rows {
		var ofTotal, ofGroup float64
		if total > 0 {
			ofTotal = r.Sum / total
		}
		if g := groupSums[r.group]; g > 0 {
			ofGroup = r.Sum / g
		}
		t.Rows = append(t.Rows, []string{
			r.group, r.typ,
			pct(ofTotal), pct(ofGroup),
			strconv.Itoa(r.Count),
			dur(r.Sum), dur(r.Mean), dur(r.Sum / float64(days)),
			dur(r.Std), dur(r.Median), dur(r.Min), dur(r.Max),
		})
	}
	return t
}

// TaskTable rolls entries up by comment. Entries without a comment are
// left out; rows are ordered by descending total.
func TaskTable(entries []domain.Entry) Table {
	buckets := aggregator.ByKey(entries, aggregator.Composite(aggregator.ByComment, aggregator.ByType, aggregator.ByGroup))
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Sum > buckets[j].Sum
	})

	t := Table{Header: []string{"Group", "Type", "Task", "Num", "Sum", "Avg", "Std", "Median", "Min", "Max"}}
	for _, b := range buckets {
		parts := aggregator.SplitKey(b.Key)
		comment, typ, group := parts[0], parts[1], parts[2]
		t.Rows = append(t.Rows, []string{
			group, typ, comment,
			strconv.Itoa(b.Count),
			dur(b.Sum), dur(b.Mean), dur(b.Std), dur(b.Median), dur(b.Min), dur(b.Max),
		})
	}
	return t
}

// Trend lays out the chosen statistic of each key per period, keys as
// rows and periods as columns, with the keys' totals in the last column.
// buckets must come from aggregator.ByPeriod over the same periods and keys.
func Trend(buckets []aggregator.Bucket, periods, keys []string, stat aggregator.Stat) Table {
	cells := make(map[[2]string]aggregator.Summary, len(buckets))
	for _, b := range buckets {
		cells[[2]string{b.Period, b.Key}] = b.Summary
	}

	header := append([]string{""}, periods...)
	if stat == aggregator.StatSum || stat == aggregator.StatCount {
		header = append(header, "Total")
	}
	t := Table{Header: header}
	for _, k := range keys {
		row := []string{k}
		var sum float64
		for _, p := range periods {
			v := cells[[2]string{p, k}].Value(stat)
			sum += v
			row = append(row, statText(stat, v))
		}
		if len(header) > len(periods)+1 {
			row = append(row, statText(stat, sum))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func statText(stat aggregator.Stat, v float64) string {
	if stat == aggregator.StatCount {
		return strconv.Itoa(int(v))
	}
	return dur(v)
}

// SortKeys orders names by display order, then by name.
func SortKeys(names []string, orders map[string]int) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := orderOf(orders, out[i]), orderOf(orders, out[j])
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out
}

package aggregator

import (
	"math"
	"sort"
)

// Stat identifies one supported duration statistic.
type Stat int

const (
	StatCount Stat = iota
	StatSum
	StatMean
	StatStd
	StatMedian
	StatMin
	StatMax
)

// AllStats lists the statistics in display order.
var AllStats = []Stat{StatCount, StatSum, StatMean, StatStd, StatMedian, StatMin, StatMax}

func (s Stat) String() string {
	switch s {
	case StatCount:
		return "Num"
	case StatSum:
		return "Sum"
	case StatMean:
		return "Avg"
	case StatStd:
		return "Std"
	case StatMedian:
		return "Median"
	case StatMin:
		return "Min"
	case StatMax:
		return "Max"
	default:
		return "?"
	}
}

// Summary holds the descriptive statistics of a set of durations in
// seconds. The zero value describes an empty set.
type Summary struct {
	Count  int
	Sum    float64
	Mean   float64
	Std    float64
	Median float64
	Min    float64
	Max    float64
}

// Value returns the statistic s.
func (s Summary) Value(stat Stat) float64 {
	switch stat {
	case StatCount:
		return float64(s.Count)
	case StatSum:
		return s.Sum
	case StatMean:
		return s.Mean
	case StatStd:
		return s.Std
	case StatMedian:
		return s.Median
	case StatMin:
		return s.Min
	case StatMax:
		return s.Max
	default:
		return 0
	}
}

// Accumulator collects durations and summarises them.
type Accumulator interface {
	Add(seconds int64)
	Summary() Summary
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() Accumulator {
	return &durationAccumulator{}
}

type durationAccumulator struct {
	values []int64
}

func (a *durationAccumulator) Add(seconds int64) {
	a.values = append(a.values, seconds)
}

// Summary computes all statistics. Std is the sample standard deviation
// and is 0 below two values; an empty accumulator yields all zeros.
func (a *durationAccumulator) Summary() Summary {
	n := len(a.values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]int64, n)
	copy(sorted, a.values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum float64
	for _, v := range sorted {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var std float64
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			d := float64(v) - mean
			sq += d * d
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
	}

	return Summary{
		Count:  n,
		Sum:    sum,
		Mean:   mean,
		Std:    std,
		Median: median,
		Min:    float64(sorted[0]),
		Max:    float64(sorted[n-1]),
	}
}

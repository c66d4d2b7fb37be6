package report

import (
	"math"
	"strconv"

	"github.com/alexanderramin/timereport/internal/timeutil"
	"github.com/shopspring/decimal"
)

// pct formats a fraction as a percentage with one decimal, e.g. "12.5%".
func pct(frac float64) string {
	return decimal.NewFromFloat(frac).Shift(2).StringFixed(1) + "%"
}

// dur formats seconds, rounded to the nearest second.
func dur(seconds float64) string {
	return timeutil.DurationString(int64(math.Round(seconds)), false)
}

// rank renders a 1-based position as "#n".
func rank(n int) string {
	return "#" + strconv.Itoa(n)
}

// hours converts seconds to hours for chart values.
func hours(seconds float64) float64 {
	v, _ := decimal.NewFromFloat(seconds).Div(decimal.NewFromInt(3600)).Round(2).Float64()
	return v
}

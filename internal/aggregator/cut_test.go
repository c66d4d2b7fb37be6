package aggregator

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(y int, m time.Month, d, h int) int64 {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC).Unix()
}

func entry(typ, group string, from, to int64) domain.Entry {
	return domain.Entry{IntervalID: typ, Type: typ, Group: group, From: from, To: to, Delta: to - from}
}

func TestCut_SleepAcrossMidnight(t *testing.T) {
	cal := timeutil.NewCalendar(time.UTC)
	w := timeutil.Window{Start: ts(2015, 1, 1, 0), End: ts(2015, 1, 3, 0)}
	in := []domain.Entry{entry("Sleep", "Rest", ts(2015, 1, 1, 22), ts(2015, 1, 2, 6))}

	out := Cut(in, w, domain.LevelDay, cal)

	require.Len(t, out, 2)
	assert.Equal(t, int64(2*3600), out[0].Delta)
	assert.Equal(t, int64(6*3600), out[1].Delta)
	assert.Equal(t, "20150101", out[0].Period)
	assert.Equal(t, "20150102", out[1].Period)
	assert.Equal(t, out[0].To, out[1].From)
	assert.Equal(t, int64(8*3600), TotalSeconds(out))
	assert.Equal(t, "Sleep", out[1].Type)
	assert.Equal(t, "Rest", out[1].Group)
}

func TestClip_ClampsBothEdges(t *testing.T) {
	w := timeutil.Window{Start: ts(2015, 1, 1, 0), End: ts(2015, 1, 2, 0)}
	in := []domain.Entry{
		entry("Sleep", "Rest", ts(2014, 12, 31, 23), ts(2015, 1, 1, 7)),
		entry("Work", "Job", ts(2015, 1, 1, 9), ts(2015, 1, 1, 17)),
		entry("Read", "Fun", ts(2015, 1, 1, 22), ts(2015, 1, 2, 1)),
	}

	out := Clip(in, w)

	require.Len(t, out, 3)
	assert.Equal(t, w.Start, out[0].From)
	assert.Equal(t, int64(7*3600), out[0].Delta)
	assert.Equal(t, in[1], out[1])
	assert.Equal(t, w.End, out[2].To)
	assert.Equal(t, int64(2*3600), out[2].Delta)
	// input untouched
	assert.Equal(t, ts(2014, 12, 31, 23), in[0].From)
}

func TestClip_EndOnWindowEndIsKept(t *testing.T) {
	w := timeutil.Window{Start: ts(2015, 1, 1, 0), End: ts(2015, 1, 2, 0)}
	in := []domain.Entry{entry("Read", "Fun", ts(2015, 1, 1, 20), w.End)}

	out := Clip(in, w)
	assert.Equal(t, in, out)
}

func TestClip_Empty(t *testing.T) {
	out := Clip(nil, timeutil.Window{Start: 0, End: 10})
	assert.Empty(t, out)
}

func TestSplit_SeveralBreakpointsInOneInterval(t *testing.T) {
	in := []domain.Entry{entry("Trip", "Fun", 5, 35)}

	out := Split(in, []int64{10, 20, 30}, nil)

	require.Len(t, out, 4)
	assert.Equal(t, []int64{5, 5, 10, 10}, []int64{out[0].Delta, out[3].Delta, out[1].Delta, out[2].Delta})
	assert.Equal(t, int64(30), TotalSeconds(out))
}

func TestSplit_EndOnBreakpointDoesNotSplit(t *testing.T) {
	in := []domain.Entry{
		entry("A", "G", 0, 10),
		entry("B", "G", 10, 15),
	}

	out := Split(in, []int64{10}, func(v int64) string {
		if v < 10 {
			return "p0"
		}
		return "p1"
	})

	require.Len(t, out, 2)
	assert.Equal(t, "p0", out[0].Period)
	assert.Equal(t, "p1", out[1].Period)
	assert.Equal(t, in[0].Delta, out[0].Delta)
}

func TestSplit_SkipsBreakpointsInGaps(t *testing.T) {
	in := []domain.Entry{
		entry("A", "G", 0, 5),
		entry("B", "G", 25, 35),
	}

	out := Split(in, []int64{10, 20, 30}, nil)

	require.Len(t, out, 3)
	assert.Equal(t, int64(5), out[0].Delta)
	assert.Equal(t, int64(25), out[1].From)
	assert.Equal(t, int64(30), out[1].To)
	assert.Equal(t, int64(30), out[2].From)
}

func TestCut_LevelNoneOnlyClips(t *testing.T) {
	cal := timeutil.NewCalendar(time.UTC)
	w := timeutil.Window{Start: ts(2015, 1, 1, 0), End: ts(2015, 1, 3, 0)}
	in := []domain.Entry{entry("Sleep", "Rest", ts(2015, 1, 1, 22), ts(2015, 1, 2, 6))}

	out := Cut(in, w, domain.LevelNone, cal)

	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].Period)
	assert.Equal(t, int64(8*3600), out[0].Delta)
}

// TestSplit_Invariants property-tests that splitting never loses time,
// keeps every delta consistent and is idempotent.
func TestSplit_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 300; trial++ {
		var in []domain.Entry
		cursor := int64(rng.Intn(50))
		for i := rng.Intn(10) + 1; i > 0; i-- {
			cursor += int64(rng.Intn(20))
			length := int64(rng.Intn(80))
			in = append(in, entry("T", "G", cursor, cursor+length))
			cursor += length
		}

		var bps []int64
		seen := map[int64]bool{}
		for i := rng.Intn(15); i > 0; i-- {
			bp := int64(rng.Intn(int(cursor) + 1))
			if !seen[bp] {
				seen[bp] = true
				bps = append(bps, bp)
			}
		}
		sort.Slice(bps, func(i, j int) bool { return bps[i] < bps[j] })

		out := Split(in, bps, nil)

		assert.Equal(t, TotalSeconds(in), TotalSeconds(out), "trial %d: split must keep total duration", trial)
		for _, e := range out {
			assert.Equal(t, e.To-e.From, e.Delta, "trial %d: delta out of sync", trial)
			for _, bp := range bps {
				assert.False(t, e.From < bp && bp < e.To, "trial %d: piece [%d,%d) still contains %d", trial, e.From, e.To, bp)
			}
		}
		assert.Equal(t, out, Split(out, bps, nil), "trial %d: second split must be a no-op", trial)
	}
}

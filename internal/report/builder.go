package report

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/timereport/internal/aggregator"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/timeutil"
)

// Input is everything a document is built from. The builder does no I/O.
type Input struct {
	Level  domain.Level
	Period string
	Window timeutil.Window
	// Entries overlap Window and are ordered by end time.
	Entries []domain.Entry
	// Sleep holds the sleep entries ending inside SleepWindow.
	Sleep []domain.Entry
	// GroupOrder maps group name to display order.
	GroupOrder map[string]int
	// TypeOrder maps type name to its group's display order.
	TypeOrder      map[string]int
	SleepRangeDays int
}

// Builder turns report inputs into documents.
type Builder struct {
	cal *timeutil.Calendar
}

// NewBuilder creates a Builder working in cal's timezone.
func NewBuilder(cal *timeutil.Calendar) *Builder {
	return &Builder{cal: cal}
}

// SleepWindow is the range whose sleeps feed the report: the comparison
// range ending with the reported day for daily notes, otherwise the
// report window itself.
func (b *Builder) SleepWindow(level domain.Level, w timeutil.Window, rangeDays int) timeutil.Window {
	if level != domain.LevelDay {
		return w
	}
	return timeutil.Window{
		Start: b.cal.Time(w.End).AddDate(0, 0, -rangeDays).Unix(),
		End:   w.End,
	}
}

// Build dispatches on the input level.
func (b *Builder) Build(in Input) (Document, error) {
	switch in.Level {
	case domain.LevelDay:
		return b.Daily(in)
	case domain.LevelWeek:
		return b.Weekly(in), nil
	case domain.LevelMonth:
		return b.Monthly(in), nil
	default:
		return Document{}, fmt.Errorf("building report: unsupported level %d", in.Level)
	}
}

// Daily builds the diary note: last night's sleep, where the day went and
// the commented tasks. The task section is left out when nothing was
// commented.
func (b *Builder) Daily(in Input) (Document, error) {
	doc := Document{
		Title:  in.Period,
		Level:  domain.LevelDay,
		Period: in.Period,
		Intro:  b.cal.DayInfo(in.Window.Start),
		Ending: ending(domain.LevelDay),
	}

	morning := Section{Heading: "1. Good Morning!"}
	sleep, err := CompareSleep(in.Sleep, in.Period, in.SleepRangeDays, b.cal)
	switch {
	case errors.Is(err, ErrNoData):
		morning.Text = NoDataText
	case err != nil:
		return Document{}, err
	default:
		morning.Tables = []Table{sleep}
	}
	doc.Sections = append(doc.Sections, morning)

	cut := aggregator.Cut(in.Entries, in.Window, domain.LevelNone, b.cal)
	doc.Sections = append(doc.Sections, b.overview("2. What's up?", cut, in))

	if tasks := TaskTable(cut); !tasks.Empty() {
		doc.Sections = append(doc.Sections, Section{Heading: "3. How are things going?", Tables: []Table{tasks}})
	}
	return doc, nil
}

// Weekly builds the review note for one ISO week with daily trends.
func (b *Builder) Weekly(in Input) Document {
	start := b.cal.Time(in.Window.Start)
	end := b.cal.Time(in.Window.End)
	year, week := start.ISOWeek()
	doc := Document{
		Title:  fmt.Sprintf("%d Week%02d (%s - %s)", year, week, start.Format("Jan 02"), end.Format("Jan 02")),
		Level:  domain.LevelWeek,
		Period: in.Period,
		Ending: ending(domain.LevelWeek),
	}
	doc.Sections = b.review(in, domain.LevelWeek.Finer())
	return doc
}

// Monthly builds the review note for one month with weekly trends.
func (b *Builder) Monthly(in Input) Document {
	title := in.Period
	if t, err := parseMonthLabel(in.Period); err == nil {
		title = t
	}
	doc := Document{
		Title:  title,
		Level:  domain.LevelMonth,
		Period: in.Period,
		Ending: ending(domain.LevelMonth),
	}
	doc.Sections = b.review(in, domain.LevelMonth.Finer())
	return doc
}

func ending(level domain.Level) string {
	return fmt.Sprintf("Have a nice %s!", level.Unit())
}

// parseMonthLabel turns "2015M02" into "2015 Month02".
func parseMonthLabel(label string) (string, error) {
	var year, month int
	if _, err := fmt.Sscanf(label, "%4dM%2d", &year, &month); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d Month%02d", year, month), nil
}

func (b *Builder) overview(heading string, cut []domain.Entry, in Input) Section {
	if len(cut) == 0 {
		return Section{Heading: heading, Text: NoDataText}
	}
	table, chart := GroupOverview(aggregator.Shares(cut, b.cal.DayCount(in.Window)), in.GroupOrder)
	return Section{Heading: heading, Tables: []Table{table}, Charts: []Chart{chart}}
}

// review builds the five sections shared by weekly and monthly notes;
// trends are broken down at the finer level.
func (b *Builder) review(in Input, trendLevel domain.Level) []Section {
	whole := aggregator.Cut(in.Entries, in.Window, domain.LevelNone, b.cal)
	sections := []Section{b.overview("1. Group Overview", whole, in)}

	detail := Section{Heading: "2. Type Detail"}
	if len(whole) == 0 {
		detail.Text = NoDataText
	} else {
		detail.Tables = []Table{TypeDetail(whole, in.TypeOrder, b.cal.DayCount(in.Window))}
	}
	sections = append(sections, detail)

	split := aggregator.Cut(in.Entries, in.Window, trendLevel, b.cal)
	periods := b.cal.LabelsFor(in.Window, trendLevel)

	groups := SortKeys(aggregator.UniqueKeys(split, aggregator.ByGroup), in.GroupOrder)
	groupTrend := Section{Heading: "3. Group Trends"}
	typeTrend := Section{Heading: "4. Type Trends"}
	if len(groups) == 0 {
		groupTrend.Text = NoDataText
		typeTrend.Text = NoDataText
	} else {
		buckets := aggregator.ByPeriod(split, periods, groups, aggregator.ByGroup)
		groupTrend.Tables = []Table{Trend(buckets, periods, groups, aggregator.StatSum)}

		for _, g := range groups {
			var inGroup []domain.Entry
			for _, e := range split {
				if e.Group == g {
					inGroup = append(inGroup, e)
				}
			}
			types := aggregator.UniqueKeys(inGroup, aggregator.ByType)
			typeBuckets := aggregator.ByPeriod(inGroup, periods, types, aggregator.ByType)
			table := Trend(typeBuckets, periods, SortKeys(types, nil), aggregator.StatSum)
			table.Header[0] = g
			typeTrend.Tables = append(typeTrend.Tables, table)
		}
	}
	sections = append(sections, groupTrend, typeTrend)

	sleep := Section{Heading: "5. Sleep Trends"}
	if nights := SleepNights(in.Sleep, b.cal); len(nights) == 0 {
		sleep.Text = NoDataText
	} else {
		table, chart := SleepTrend(nights, b.cal)
		sleep.Tables = []Table{table}
		sleep.Charts = []Chart{chart}
	}
	return append(sections, sleep)
}

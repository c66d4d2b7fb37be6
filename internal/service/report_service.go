package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/timereport/internal/app"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/notes"
	"github.com/alexanderramin/timereport/internal/report"
	"github.com/alexanderramin/timereport/internal/repository"
	"github.com/alexanderramin/timereport/internal/timeutil"
)

// ReportOptions tune what the report service loads and who it tells.
type ReportOptions struct {
	// SleepType is the type name whose intervals count as sleep.
	SleepType string
	// SleepRangeDays is the comparison range of the daily sleep table.
	SleepRangeDays int
	// Notify raises a desktop alert after publishing.
	Notify bool
}

type reportService struct {
	categories repository.CategoryRepo
	intervals  repository.IntervalRepo
	cal        *timeutil.Calendar
	builder    *report.Builder
	publisher  notes.Publisher
	notifier   notes.Notifier
	opts       ReportOptions
	observer   UseCaseObserver
}

func NewReportService(
	categories repository.CategoryRepo,
	intervals repository.IntervalRepo,
	cal *timeutil.Calendar,
	publisher notes.Publisher,
	notifier notes.Notifier,
	opts ReportOptions,
	observers ...UseCaseObserver,
) app.ReportUseCase {
	if notifier == nil {
		notifier = notes.NoopNotifier{}
	}
	return &reportService{
		categories: categories,
		intervals:  intervals,
		cal:        cal,
		builder:    report.NewBuilder(cal),
		publisher:  publisher,
		notifier:   notifier,
		opts:       opts,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) Generate(ctx context.Context, req app.ReportRequest) (res *app.ReportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"dry_run": req.DryRun}
	defer observe(ctx, s.observer, "report."+req.Level.String(), startedAt, fields, &err)

	period, w, err := s.resolve(req.Level, req.Date)
	if err != nil {
		return nil, err
	}
	fields["period"] = period

	in, err := s.load(ctx, req.Level, period, w)
	if err != nil {
		return nil, err
	}
	fields["entries"] = len(in.Entries)

	doc, err := s.builder.Build(in)
	if err != nil {
		return nil, err
	}
	res = &app.ReportResult{Document: doc}
	if req.DryRun {
		return res, nil
	}

	note := notes.Render(doc, s.cal.Now())
	res.Location, err = s.publisher.Publish(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("publishing %s: %w", doc.Title, err)
	}
	fields["location"] = res.Location

	if s.opts.Notify {
		// The note is already written; a missing desktop notification
		// only gets logged.
		if nerr := s.notifier.Notify("Time report", doc.Title+" is ready"); nerr != nil {
			fields["notify_error"] = nerr.Error()
		}
	}
	return res, nil
}

// resolve turns the requested token into a period label and window. An
// empty token selects the last complete period of the level; for months
// that is the plain calendar month, while month tokens are week-aligned.
func (s *reportService) resolve(level domain.Level, token string) (string, timeutil.Window, error) {
	if token != "" {
		w, err := s.cal.PeriodBounds(token, level)
		if err != nil {
			return "", timeutil.Window{}, err
		}
		return token, w, nil
	}
	if level == domain.LevelNone {
		return "", timeutil.Window{}, fmt.Errorf("%w: unsupported level %d", timeutil.ErrBadToken, level)
	}

	w, err := s.cal.RelativeRange("last 1 " + level.String())
	if err != nil {
		return "", timeutil.Window{}, err
	}
	return s.cal.Label(w.Start, level), w, nil
}

func (s *reportService) load(ctx context.Context, level domain.Level, period string, w timeutil.Window) (report.Input, error) {
	in := report.Input{
		Level:          level,
		Period:         period,
		Window:         w,
		SleepRangeDays: s.opts.SleepRangeDays,
	}

	var err error
	if in.Entries, err = s.intervals.ListEntries(ctx, w); err != nil {
		return report.Input{}, err
	}
	sleepWindow := s.builder.SleepWindow(level, w, s.opts.SleepRangeDays)
	if in.Sleep, err = s.intervals.ListByTypeName(ctx, s.opts.SleepType, sleepWindow); err != nil {
		return report.Input{}, err
	}
	if in.GroupOrder, err = s.categories.GroupOrder(ctx); err != nil {
		return report.Input{}, err
	}
	if in.TypeOrder, err = s.categories.AllTypes(ctx); err != nil {
		return report.Input{}, err
	}
	return in, nil
}

// Package schedule runs the daily sync-and-report pipeline on a cron tick.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/timereport/internal/app"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner whose jobs never overlap.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *Scheduler) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// Next returns the next activation of the entry, zero before Start.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

// Run starts the runner, logs each entry's next activation and blocks
// until ctx is done, then waits for a running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("next run", "entry", e.ID, "at", s.Next(e.ID).Format(time.RFC3339))
	}
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

// ValidateTime reports whether timeStr is a usable HH:MM schedule.
func ValidateTime(timeStr string) error {
	_, err := buildDailySpec(timeStr)
	return err
}

// DailyJob is the default pipeline: an incremental sync followed by
// yesterday's diary note.
type DailyJob struct {
	Sync   app.SyncUseCase
	Report app.ReportUseCase
	Logger *slog.Logger
}

// Run executes one pass of the pipeline. A failed sync skips the report.
func (j DailyJob) Run(ctx context.Context) error {
	if _, err := j.Sync.Sync(ctx, app.SyncRequest{Mode: app.SyncIncremental}); err != nil {
		return fmt.Errorf("daily sync: %w", err)
	}
	res, err := j.Report.Generate(ctx, app.ReportRequest{Level: domain.LevelDay})
	if err != nil {
		return fmt.Errorf("daily report: %w", err)
	}
	j.logger().InfoContext(ctx, "daily report published", "title", res.Document.Title, "location", res.Location)
	return nil
}

// Func adapts Run to a cron job, logging instead of returning errors.
func (j DailyJob) Func(ctx context.Context) func() {
	return func() {
		if err := j.Run(ctx); err != nil {
			j.logger().ErrorContext(ctx, "daily job failed", "error", err)
		}
	}
}

func (j DailyJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}

// cronLogger routes the runner's own messages through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

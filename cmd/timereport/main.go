package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/timereport/internal/cli"
	"github.com/alexanderramin/timereport/internal/cli/formatter"
	"github.com/alexanderramin/timereport/internal/config"
	"github.com/alexanderramin/timereport/internal/db"
	"github.com/alexanderramin/timereport/internal/notes"
	"github.com/alexanderramin/timereport/internal/repository"
	"github.com/alexanderramin/timereport/internal/schedule"
	"github.com/alexanderramin/timereport/internal/service"
	"github.com/alexanderramin/timereport/internal/timeutil"
	"github.com/alexanderramin/timereport/internal/tracker"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprint(os.Stderr, formatter.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	formatter.SetColor(interactive)

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if !cfg.HasCredentials() {
		logger.Warn("tracker credentials missing; set TIMEREPORT_TRACKER_USER and TIMEREPORT_TRACKER_PASSWORD")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	cal := timeutil.NewCalendar(loc)

	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire the tracker client
	var callObserver tracker.Observer = tracker.NoopObserver{}
	if cfg.LogCalls {
		callObserver = tracker.NewLogObserver(logger)
	}
	client := tracker.NewHTTPClient(cfg.Tracker(), callObserver)

	// Wire services
	useCases := service.NewLogUseCaseObserver(logger)
	var notifier notes.Notifier = notes.NoopNotifier{}
	if cfg.Notify {
		notifier = notes.NewDesktopNotifier("timereport")
	}
	syncSvc := service.NewSyncService(client, db.NewSQLiteUnitOfWork(database), cal, cfg.NewDays, useCases)
	reportSvc := service.NewReportService(
		repository.NewSQLiteCategoryRepo(database),
		repository.NewSQLiteIntervalRepo(database),
		cal,
		notes.NewVaultPublisher(cfg.Vault),
		notifier,
		service.ReportOptions{
			SleepType:      cfg.SleepType,
			SleepRangeDays: cfg.SleepRangeDays,
			Notify:         cfg.Notify,
		},
		useCases,
	)

	app := &cli.App{
		Sync:     syncSvc,
		Report:   reportSvc,
		Calendar: cal,
		Schedule: func(ctx context.Context, at string) error {
			s := schedule.NewScheduler(loc, logger)
			job := schedule.DailyJob{Sync: syncSvc, Report: reportSvc, Logger: logger}
			id, err := s.ScheduleDaily(at, job.Func(ctx))
			if err != nil {
				return err
			}
			logger.Info("scheduler started", "at", at, "entry", id)
			s.Run(ctx)
			return nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SilenceErrors = true
	return rootCmd.ExecuteContext(ctx)
}

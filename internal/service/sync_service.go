package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timereport/internal/app"
	"github.com/alexanderramin/timereport/internal/db"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/repository"
	"github.com/alexanderramin/timereport/internal/timeutil"
	"github.com/alexanderramin/timereport/internal/tracker"
)

type syncService struct {
	tracker  tracker.Client
	uow      db.UnitOfWork
	cal      *timeutil.Calendar
	newDays  int
	observer UseCaseObserver
}

// NewSyncService creates the use case that mirrors the tracker into the
// store. newDays is how many whole days back an incremental sync reaches.
func NewSyncService(client tracker.Client, uow db.UnitOfWork, cal *timeutil.Calendar, newDays int, observers ...UseCaseObserver) app.SyncUseCase {
	return &syncService{
		tracker:  client,
		uow:      uow,
		cal:      cal,
		newDays:  newDays,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Sync fetches everything from the tracker before opening the transaction,
// so a network failure leaves the store untouched.
func (s *syncService) Sync(ctx context.Context, req app.SyncRequest) (res *app.SyncResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "sync."+req.Mode.String(), startedAt, fields, &err)

	switch req.Mode {
	case app.SyncIncremental:
		res, err = s.incremental(ctx)
	case app.SyncRebuild:
		res, err = s.rebuild(ctx)
	default:
		err = fmt.Errorf("sync: unknown mode %d", req.Mode)
	}
	if res != nil {
		fields["types"] = res.Types
		fields["intervals"] = res.Intervals
	}
	return res, err
}

// since is the range an incremental sync refreshes: from the start
// of the day newDays ago until now.
func (s *syncService) since() timeutil.Window {
	now := s.cal.Now()
	from := s.cal.Floor(now, domain.LevelDay).AddDate(0, 0, -s.newDays)
	return timeutil.Window{Start: from.Unix(), End: now.Unix()}
}

func (s *syncService) incremental(ctx context.Context) (*app.SyncResult, error) {
	w := s.since()

	cats, err := s.tracker.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching types: %w", err)
	}
	intervals, err := s.tracker.Intervals(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("fetching intervals: %w", err)
	}

	res := &app.SyncResult{
		Mode:      app.SyncIncremental,
		Types:     len(cats),
		Intervals: len(intervals),
		From:      w.Start,
		To:        w.End,
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCategories := repository.NewSQLiteCategoryRepo(tx)
		txIntervals := repository.NewSQLiteIntervalRepo(tx)
		if err := txCategories.UpsertBatch(ctx, cats); err != nil {
			return err
		}
		if err := txIntervals.UpsertBatch(ctx, intervals); err != nil {
			return err
		}
		return tally(ctx, txCategories, txIntervals, res)
	})
	if err != nil {
		return nil, fmt.Errorf("storing update: %w", err)
	}
	return res, nil
}

func (s *syncService) rebuild(ctx context.Context) (*app.SyncResult, error) {
	cats, err := s.tracker.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching types: %w", err)
	}
	intervals, err := s.tracker.AllIntervals(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching intervals: %w", err)
	}

	res := &app.SyncResult{
		Mode:      app.SyncRebuild,
		Types:     len(cats),
		Intervals: len(intervals),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCategories := repository.NewSQLiteCategoryRepo(tx)
		txIntervals := repository.NewSQLiteIntervalRepo(tx)

		if err := txIntervals.Truncate(ctx); err != nil {
			return err
		}
		if err := txCategories.Truncate(ctx); err != nil {
			return err
		}
		if err := txCategories.UpsertBatch(ctx, cats); err != nil {
			return err
		}
		if err := txIntervals.UpsertBatch(ctx, intervals); err != nil {
			return err
		}
		return tally(ctx, txCategories, txIntervals, res)
	})
	if err != nil {
		return nil, fmt.Errorf("storing rebuild: %w", err)
	}
	return res, nil
}

// tally records the store size and newest interval end on res.
func tally(ctx context.Context, categories repository.CategoryRepo, intervals repository.IntervalRepo, res *app.SyncResult) error {
	n, err := intervals.Count(ctx)
	if err != nil {
		return err
	}
	res.Stored = n
	cats, err := categories.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		if c.IsGroup && !c.Deleted {
			res.Groups++
		}
	}
	last, err := intervals.LastEnd(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	res.LastEnd = last
	return nil
}

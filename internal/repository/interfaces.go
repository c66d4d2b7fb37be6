package repository

import (
	"context"

	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/timeutil"
)

// CategoryRepo stores the two-level category tree.
type CategoryRepo interface {
	UpsertBatch(ctx context.Context, cats []domain.Category) error
	List(ctx context.Context) ([]domain.Category, error)
	// GroupOrder maps group name to display order.
	GroupOrder(ctx context.Context) (map[string]int, error)
	// TypeOrder maps the names of the group's types to their display order.
	TypeOrder(ctx context.Context, group string) (map[string]int, error)
	// AllTypes maps every type name to its parent group's display order.
	AllTypes(ctx context.Context) (map[string]int, error)
	Truncate(ctx context.Context) error
}

// IntervalRepo stores recorded intervals and serves joined entries.
type IntervalRepo interface {
	UpsertBatch(ctx context.Context, intervals []domain.Interval) error
	// ListEntries returns entries overlapping w, ordered by end time.
	ListEntries(ctx context.Context, w timeutil.Window) ([]domain.Entry, error)
	// ListByTypeName returns entries of one type ending inside w, ordered
	// by end time.
	ListByTypeName(ctx context.Context, name string, w timeutil.Window) ([]domain.Entry, error)
	// LastEnd returns the latest interval end, or ErrNotFound when empty.
	LastEnd(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	Truncate(ctx context.Context) error
}

var (
	_ CategoryRepo = (*SQLiteCategoryRepo)(nil)
	_ IntervalRepo = (*SQLiteIntervalRepo)(nil)
)

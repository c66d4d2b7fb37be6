package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/timereport/internal/db"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/timeutil"
)

// SQLiteIntervalRepo implements IntervalRepo using a SQLite database.
type SQLiteIntervalRepo struct {
	db db.DBTX
}

// NewSQLiteIntervalRepo creates a new SQLiteIntervalRepo.
func NewSQLiteIntervalRepo(conn db.DBTX) *SQLiteIntervalRepo {
	return &SQLiteIntervalRepo{db: conn}
}

const entryColumns = `i.id, i.from_ts, i.to_ts, i.delta, t.name, g.name, i.comment`

// UpsertBatch stores every interval, replacing rows with the same id.
// Delta is always recomputed from the bounds.
func (r *SQLiteIntervalRepo) UpsertBatch(ctx context.Context, intervals []domain.Interval) error {
	query := `INSERT INTO intervals (id, type_id, from_ts, to_ts, delta, comment, activity_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type_id = excluded.type_id,
			from_ts = excluded.from_ts,
			to_ts = excluded.to_ts,
			delta = excluded.delta,
			comment = excluded.comment,
			activity_id = excluded.activity_id`
	for _, iv := range intervals {
		iv.Normalize()
		if err := iv.Validate(); err != nil {
			return err
		}
		_, err := r.db.ExecContext(ctx, query,
			iv.ID,
			iv.TypeID,
			iv.From,
			iv.To,
			iv.Delta,
			nullableString(iv.Comment),
			iv.ActivityID,
		)
		if err != nil {
			return fmt.Errorf("upserting interval %s: %w", iv.ID, err)
		}
	}
	return nil
}

func (r *SQLiteIntervalRepo) ListEntries(ctx context.Context, w timeutil.Window) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM intervals i
		JOIN types t ON i.type_id = t.id
		JOIN types g ON t.parent_id = g.id
		WHERE i.to_ts > ? AND i.from_ts < ?
		ORDER BY i.to_ts, i.from_ts`
	rows, err := r.db.QueryContext(ctx, query, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *SQLiteIntervalRepo) ListByTypeName(ctx context.Context, name string, w timeutil.Window) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM intervals i
		JOIN types t ON i.type_id = t.id
		JOIN types g ON t.parent_id = g.id
		WHERE t.name = ? AND i.to_ts > ? AND i.to_ts < ?
		ORDER BY i.to_ts`
	rows, err := r.db.QueryContext(ctx, query, name, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("listing %s entries: %w", name, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *SQLiteIntervalRepo) LastEnd(ctx context.Context) (int64, error) {
	var last sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(to_ts) FROM intervals`).Scan(&last); err != nil {
		return 0, fmt.Errorf("loading last interval end: %w", err)
	}
	if !last.Valid {
		return 0, fmt.Errorf("last interval: %w", ErrNotFound)
	}
	return last.Int64, nil
}

func (r *SQLiteIntervalRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM intervals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting intervals: %w", err)
	}
	return n, nil
}

func (r *SQLiteIntervalRepo) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM intervals`); err != nil {
		return fmt.Errorf("truncating intervals: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		var (
			e       domain.Entry
			comment sql.NullString
		)
		if err := rows.Scan(&e.IntervalID, &e.From, &e.To, &e.Delta, &e.Type, &e.Group, &comment); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Comment = comment.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/timereport/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func countIntervals(t *testing.T, uow *db.SQLiteUnitOfWork) int {
	t.Helper()
	var n int
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM intervals`).Scan(&n)
	})
	require.NoError(t, err)
	return n
}

func insertInterval(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO intervals (id, type_id, from_ts, to_ts, delta) VALUES (?, 't1', 0, 60, 60)`, id)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertInterval(ctx, tx, "i1"); err != nil {
			return err
		}
		return insertInterval(ctx, tx, "i2")
	})
	require.NoError(t, err)

	assert.Equal(t, 2, countIntervals(t, uow))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := newUoW(t)
	sentinel := errors.New("tracker went away")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertInterval(ctx, tx, "i1"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	assert.Equal(t, 0, countIntervals(t, uow), "batch must not be partially committed")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertInterval(ctx, tx, "i1")
			panic("boom")
		})
	})

	assert.Equal(t, 0, countIntervals(t, uow))
}

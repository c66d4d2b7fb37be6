package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/timereport/internal/db"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/testutil"
	"github.com/alexanderramin/timereport/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	database, err := db.OpenDB(filepath.Join(dir, "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReportDuringSync runs a transactional sync writer
// against report-style readers. Readers must only ever see whole batches.
func TestConcurrentAccess_ReportDuringSync(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	s := seedCategories(t, database)
	uow := db.NewSQLiteUnitOfWork(database)
	entries := NewSQLiteIntervalRepo(database)
	window := timeutil.Window{Start: at(1, 0).Unix(), End: at(31, 0).Unix()}

	const batches, perBatch = 10, 4

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for b := 0; b < batches; b++ {
			batch := make([]domain.Interval, 0, perBatch)
			for i := 0; i < perBatch; i++ {
				h := i * 2
				batch = append(batch, testutil.NewTestInterval(s.work, at(b+1, h), at(b+1, h+1)))
			}
			err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				return NewSQLiteIntervalRepo(tx).UpsertBatch(ctx, batch)
			})
			if err != nil {
				t.Errorf("writer: batch %d: %v", b, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				got, err := entries.ListEntries(ctx, window)
				if err != nil {
					t.Errorf("reader %d: list entries: %v", reader, err)
					return
				}
				if len(got)%perBatch != 0 {
					t.Errorf("reader %d: saw a partial batch of %d entries", reader, len(got))
				}
				for _, e := range got {
					if e.Type != "Work" || e.Group != "Job" {
						t.Errorf("reader %d: entry %s joined to %s/%s", reader, e.IntervalID, e.Group, e.Type)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	n, err := entries.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, batches*perBatch, n)
}

// TestConcurrentAccess_ParallelReaders checks that concurrent report reads
// over a settled store agree with each other.
func TestConcurrentAccess_ParallelReaders(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	s := seedCategories(t, database)
	repo := NewSQLiteIntervalRepo(database)
	categories := NewSQLiteCategoryRepo(database)

	for d := 1; d <= 10; d++ {
		require.NoError(t, repo.UpsertBatch(ctx, []domain.Interval{
			testutil.NewTestInterval(s.sleep, at(d, 0), at(d, 7)),
			testutil.NewTestInterval(s.work, at(d, 9), at(d, 17)),
		}))
	}

	var wg sync.WaitGroup
	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			sleep, err := repo.ListByTypeName(ctx, "Sleep", timeutil.Window{Start: at(1, 0).Unix(), End: at(11, 0).Unix()})
			if err != nil {
				t.Errorf("reader %d: list sleep: %v", reader, err)
				return
			}
			if len(sleep) != 10 {
				t.Errorf("reader %d: expected 10 sleeps, got %d", reader, len(sleep))
			}
			order, err := categories.GroupOrder(ctx)
			if err != nil {
				t.Errorf("reader %d: group order: %v", reader, err)
				return
			}
			if order["Job"] != 1 || order["Rest"] != 2 {
				t.Errorf("reader %d: unexpected group order %v", reader, order)
			}
		}(r)
	}
	wg.Wait()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/timereport/internal/db"
	"github.com/alexanderramin/timereport/internal/domain"
)

// SQLiteCategoryRepo implements CategoryRepo using a SQLite database.
type SQLiteCategoryRepo struct {
	db db.DBTX
}

// NewSQLiteCategoryRepo creates a new SQLiteCategoryRepo.
func NewSQLiteCategoryRepo(conn db.DBTX) *SQLiteCategoryRepo {
	return &SQLiteCategoryRepo{db: conn}
}

// UpsertBatch validates and stores every category, replacing rows with the
// same id. It stops at the first failure; run it inside a transaction to
// discard the partial batch.
func (r *SQLiteCategoryRepo) UpsertBatch(ctx context.Context, cats []domain.Category) error {
	query := `INSERT INTO types (id, is_group, name, parent_id, display_order, color, deleted, revision, image_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_group = excluded.is_group,
			name = excluded.name,
			parent_id = excluded.parent_id,
			display_order = excluded.display_order,
			color = excluded.color,
			deleted = excluded.deleted,
			revision = excluded.revision,
			image_id = excluded.image_id`
	for i := range cats {
		c := &cats[i]
		if err := c.Validate(); err != nil {
			return err
		}
		_, err := r.db.ExecContext(ctx, query,
			c.ID,
			boolToInt(c.IsGroup),
			c.Name,
			nullableString(c.ParentID),
			c.Order,
			c.Color,
			boolToInt(c.Deleted),
			c.Revision,
			c.ImageID,
		)
		if err != nil {
			return fmt.Errorf("upserting type %s: %w", c.ID, err)
		}
	}
	return nil
}

func (r *SQLiteCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, is_group, name, parent_id, display_order, color, deleted, revision, image_id
		FROM types ORDER BY is_group DESC, display_order, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing types: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var (
			c                domain.Category
			isGroup, deleted int
			parent           sql.NullString
		)
		if err := rows.Scan(&c.ID, &isGroup, &c.Name, &parent, &c.Order, &c.Color, &deleted, &c.Revision, &c.ImageID); err != nil {
			return nil, fmt.Errorf("scanning type: %w", err)
		}
		c.IsGroup = intToBool(isGroup)
		c.Deleted = intToBool(deleted)
		c.ParentID = stringPtr(parent)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteCategoryRepo) GroupOrder(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, display_order FROM types WHERE is_group = 1`)
	if err != nil {
		return nil, fmt.Errorf("loading group order: %w", err)
	}
	defer rows.Close()
	out, err := scanOrderMap(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning group order: %w", err)
	}
	return out, nil
}

func (r *SQLiteCategoryRepo) TypeOrder(ctx context.Context, group string) (map[string]int, error) {
	query := `SELECT t.name, t.display_order
		FROM types t JOIN types g ON t.parent_id = g.id
		WHERE g.name = ?`
	rows, err := r.db.QueryContext(ctx, query, group)
	if err != nil {
		return nil, fmt.Errorf("loading type order of %s: %w", group, err)
	}
	defer rows.Close()
	out, err := scanOrderMap(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning type order: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("group %s: %w", group, ErrNotFound)
	}
	return out, nil
}

func (r *SQLiteCategoryRepo) AllTypes(ctx context.Context) (map[string]int, error) {
	query := `SELECT t.name, g.display_order
		FROM types t JOIN types g ON t.parent_id = g.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading types: %w", err)
	}
	defer rows.Close()
	out, err := scanOrderMap(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning types: %w", err)
	}
	return out, nil
}

func (r *SQLiteCategoryRepo) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM types`); err != nil {
		return fmt.Errorf("truncating types: %w", err)
	}
	return nil
}

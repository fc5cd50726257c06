package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
)

type CategoryRepository struct {
	store
}

func NewCategoryRepository(s store) *CategoryRepository {
	return &CategoryRepository{store: s}
}

var _ CategoryRepo = (*CategoryRepository)(nil)

const categoryColumns = `id, name, slug, description, display_order, parent_id, color`

const (
	selectCategoriesSQL     = `SELECT ` + categoryColumns + ` FROM categories ORDER BY display_order ASC, id ASC`
	selectCategoryBySlugSQL = `SELECT ` + categoryColumns + ` FROM categories WHERE slug = ?`
	selectCategoryByIDSQL   = `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	insertCategorySQL       = `INSERT INTO categories (name, slug, description, display_order, parent_id, color) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

	// selectCategorySubtreeSQL walks parent_id downwards from the root id.
	selectCategorySubtreeSQL = `WITH RECURSIVE subtree(id) AS (` +
		`SELECT id FROM categories WHERE id = ? ` +
		`UNION ALL ` +
		`SELECT c.id FROM categories c JOIN subtree s ON c.parent_id = s.id` +
		`) SELECT id FROM subtree`
)

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]models.Category, 0, 16)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// GetBySlug returns (nil, nil) if not found.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.getOne(ctx, selectCategoryBySlugSQL, slug)
}

// GetByID returns (nil, nil) if not found.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	return r.getOne(ctx, selectCategoryByIDSQL, id)
}

func (r *CategoryRepository) getOne(ctx context.Context, query string, arg any) (*models.Category, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	c, err := scanCategory(r.db.QueryRowContext(ctx, r.q(query), arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category %v: %w", arg, err)
	}
	return c, nil
}

// Create inserts a category. Name or slug clashes yield ErrConflict.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if c.Color == "" {
		c.Color = models.DefaultCategoryColor
	}
	var id int
	err := r.db.QueryRowContext(ctx, r.q(insertCategorySQL),
		c.Name, c.Slug, c.Description, c.DisplayOrder, c.ParentID, c.Color,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert category %q: %w", c.Slug, ErrConflict)
		}
		return 0, fmt.Errorf("insert category %q: %w", c.Slug, err)
	}
	c.ID = id
	return id, nil
}

// DeleteTree removes the category, every descendant category, all algorithms
// filed under them and those algorithms' code templates in one transaction.
// Reports false if id was unknown.
func (r *CategoryRepository) DeleteTree(ctx context.Context, id int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted bool
	err := WithTx(ctx, r.db, func(tx DBTX) error {
		ids, err := r.subtree(ctx, tx, id)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		in := "(" + placeholders(len(ids)) + ")"
		stmts := []string{
			`DELETE FROM code_templates WHERE algorithm_id IN (SELECT id FROM algorithms WHERE category_id IN ` + in + `)`,
			`DELETE FROM algorithms WHERE category_id IN ` + in,
			`DELETE FROM categories WHERE id IN ` + in,
		}
		for i, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, r.q(stmt), ids...); err != nil {
				return fmt.Errorf("cascade statement %d: %w", i+1, err)
			}
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete category %d: %w", id, err)
	}
	return deleted, nil
}

func (r *CategoryRepository) subtree(ctx context.Context, tx DBTX, id int) ([]any, error) {
	rows, err := tx.QueryContext(ctx, r.q(selectCategorySubtreeSQL), id)
	if err != nil {
		return nil, fmt.Errorf("select category subtree: %w", err)
	}
	defer rows.Close()

	var ids []any
	for rows.Next() {
		var cid int
		if err := rows.Scan(&cid); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, cid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category subtree: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(s rowScanner) (*models.Category, error) {
	var (
		c      models.Category
		desc   sql.NullString
		parent sql.NullInt64
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Slug, &desc, &c.DisplayOrder, &parent, &c.Color); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.Description = nullString(desc)
	c.ParentID = nullInt(parent)
	return &c, nil
}

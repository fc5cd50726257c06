package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
)

type AlgorithmRepository struct {
	store
}

func NewAlgorithmRepository(s store) *AlgorithmRepository {
	return &AlgorithmRepository{store: s}
}

var _ AlgorithmRepo = (*AlgorithmRepository)(nil)

const algorithmColumns = `a.id, a.title, a.slug, a.category_id, a.difficulty_id, a.concept_summary, ` +
	`a.core_formulas, a.thought_process, a.application_conditions, a.time_complexity, a.space_complexity, ` +
	`a.problem_types, a.common_mistakes, a.is_published, a.view_count, a.created_at, a.updated_at, ` +
	`c.id, c.name, c.slug, c.description, c.display_order, c.parent_id, c.color, ` +
	`d.id, d.name, d.color`

const (
	incrementViewSQL = `UPDATE algorithms SET view_count = view_count + 1 WHERE slug = ? AND is_published = TRUE`

	selectAlgorithmBySlugSQL = `SELECT ` + algorithmColumns + algorithmJoins + ` WHERE a.slug = ?`
	selectAlgorithmByIDSQL   = `SELECT ` + algorithmColumns + algorithmJoins + ` WHERE a.id = ?`

	selectSlugTakenSQL = `SELECT 1 FROM algorithms WHERE slug = ? AND id <> ? LIMIT 1`

	insertAlgorithmSQL = `INSERT INTO algorithms (title, slug, category_id, difficulty_id, concept_summary, ` +
		`core_formulas, thought_process, application_conditions, time_complexity, space_complexity, ` +
		`problem_types, common_mistakes, is_published, view_count, created_at, updated_at) ` +
		`VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?) RETURNING id`

	updateAlgorithmSQL = `UPDATE algorithms SET title = ?, slug = ?, category_id = ?, difficulty_id = ?, ` +
		`concept_summary = ?, core_formulas = ?, thought_process = ?, application_conditions = ?, ` +
		`time_complexity = ?, space_complexity = ?, problem_types = ?, common_mistakes = ?, ` +
		`is_published = ?, updated_at = ? WHERE id = ?`

	deleteTemplatesByAlgorithmSQL = `DELETE FROM code_templates WHERE algorithm_id = ?`
	deleteAlgorithmSQL            = `DELETE FROM algorithms WHERE id = ?`
)

// snapshotTx lets the count and the page see the same rows. SQLite ignores the
// isolation level and starts a deferred (reader) transaction for read-only options.
var snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// List returns one page of published summaries and the total matching count.
// The item query is skipped when the requested offset is past the last row.
func (r *AlgorithmRepository) List(ctx context.Context, f AlgorithmFilter) ([]models.AlgorithmSummary, int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		total int
		out   []models.AlgorithmSummary
	)
	err := WithTxOptions(ctx, r.db, snapshotTx, func(tx DBTX) error {
		countQ, countArgs := buildAlgorithmCount(r.dialect, f)
		if err := tx.QueryRowContext(ctx, r.q(countQ), countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count algorithms: %w", err)
		}
		if total == 0 || f.Offset >= total {
			return nil
		}

		var err error
		out, err = r.listPage(ctx, tx, f)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	if out == nil {
		out = []models.AlgorithmSummary{}
	}
	return out, total, nil
}

func (r *AlgorithmRepository) listPage(ctx context.Context, tx DBTX, f AlgorithmFilter) ([]models.AlgorithmSummary, error) {
	listQ, listArgs := buildAlgorithmList(r.dialect, f)
	rows, err := tx.QueryContext(ctx, r.q(listQ), listArgs...)
	if err != nil {
		return nil, fmt.Errorf("list algorithms: %w", err)
	}
	defer rows.Close()

	out := make([]models.AlgorithmSummary, 0, f.Limit)
	for rows.Next() {
		var (
			s         models.AlgorithmSummary
			catDesc   sql.NullString
			catParent sql.NullInt64
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Slug, &s.ConceptSummary, &s.TimeComplexity, &s.SpaceComplexity, &s.ViewCount, &s.CreatedAt,
			&s.Category.ID, &s.Category.Name, &s.Category.Slug, &catDesc, &s.Category.DisplayOrder, &catParent, &s.Category.Color,
			&s.Difficulty.ID, &s.Difficulty.Name, &s.Difficulty.Color,
		); err != nil {
			return nil, fmt.Errorf("scan algorithm summary: %w", err)
		}
		s.CreatedAt = s.CreatedAt.UTC()
		s.Category.Description = nullString(catDesc)
		s.Category.ParentID = nullInt(catParent)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate algorithms: %w", err)
	}
	return out, nil
}

// GetBySlugAndCountView bumps view_count and reads the record back in one transaction.
// Unknown or unpublished slugs return (nil, nil) and leave no trace.
func (r *AlgorithmRepository) GetBySlugAndCountView(ctx context.Context, slug string) (*models.Algorithm, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out *models.Algorithm
	err := WithTx(ctx, r.db, func(tx DBTX) error {
		res, err := tx.ExecContext(ctx, r.q(incrementViewSQL), slug)
		if err != nil {
			return fmt.Errorf("increment views: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("increment views rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}

		a, err := r.scanAlgorithm(tx.QueryRowContext(ctx, r.q(selectAlgorithmBySlugSQL), slug))
		if err != nil {
			return err
		}
		if a == nil {
			return nil
		}
		if a.CodeTemplates, err = listTemplates(ctx, tx, r.dialect, a.ID); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get algorithm %q: %w", slug, err)
	}
	return out, nil
}

// GetByID reads any algorithm, published or not, with its templates. No view is counted.
func (r *AlgorithmRepository) GetByID(ctx context.Context, id int) (*models.Algorithm, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	a, err := r.scanAlgorithm(r.db.QueryRowContext(ctx, r.q(selectAlgorithmByIDSQL), id))
	if err != nil {
		return nil, fmt.Errorf("get algorithm %d: %w", id, err)
	}
	if a == nil {
		return nil, nil
	}
	if a.CodeTemplates, err = listTemplates(ctx, r.db, r.dialect, a.ID); err != nil {
		return nil, fmt.Errorf("get algorithm %d: %w", id, err)
	}
	return a, nil
}

// SlugTaken reports whether another algorithm (not excludeID) already owns slug.
func (r *AlgorithmRepository) SlugTaken(ctx context.Context, slug string, excludeID int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx, r.q(selectSlugTakenSQL), slug, excludeID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check slug %q: %w", slug, err)
	}
	return true, nil
}

// Create inserts a new algorithm. CreatedAt/UpdatedAt default to now (UTC).
func (r *AlgorithmRepository) Create(ctx context.Context, a *models.Algorithm) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	var id int
	err := r.db.QueryRowContext(ctx, r.q(insertAlgorithmSQL),
		a.Title, a.Slug, a.CategoryID, a.DifficultyID, a.ConceptSummary,
		jsonArg(a.CoreFormulas), a.ThoughtProcess, jsonArg(a.ApplicationConditions),
		a.TimeComplexity, a.SpaceComplexity, jsonArg(a.ProblemTypes), a.CommonMistakes,
		a.IsPublished, a.CreatedAt, a.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert algorithm %q: %w", a.Slug, ErrConflict)
		}
		return 0, fmt.Errorf("insert algorithm %q: %w", a.Slug, err)
	}
	a.ID = id
	return id, nil
}

// Update overwrites every editable column of a.ID. view_count and created_at are untouched.
func (r *AlgorithmRepository) Update(ctx context.Context, a *models.Algorithm) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, r.q(updateAlgorithmSQL),
		a.Title, a.Slug, a.CategoryID, a.DifficultyID, a.ConceptSummary,
		jsonArg(a.CoreFormulas), a.ThoughtProcess, jsonArg(a.ApplicationConditions),
		a.TimeComplexity, a.SpaceComplexity, jsonArg(a.ProblemTypes), a.CommonMistakes,
		a.IsPublished, a.UpdatedAt, a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update algorithm %d: %w", a.ID, ErrConflict)
		}
		return fmt.Errorf("update algorithm %d: %w", a.ID, err)
	}
	return nil
}

// Delete removes the algorithm and its code templates. Reports false if id was unknown.
func (r *AlgorithmRepository) Delete(ctx context.Context, id int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted bool
	err := WithTx(ctx, r.db, func(tx DBTX) error {
		if _, err := tx.ExecContext(ctx, r.q(deleteTemplatesByAlgorithmSQL), id); err != nil {
			return fmt.Errorf("delete templates: %w", err)
		}
		res, err := tx.ExecContext(ctx, r.q(deleteAlgorithmSQL), id)
		if err != nil {
			return fmt.Errorf("delete algorithm: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete algorithm rows affected: %w", err)
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete algorithm %d: %w", id, err)
	}
	return deleted, nil
}

// scanAlgorithm returns (nil, nil) on sql.ErrNoRows.
func (r *AlgorithmRepository) scanAlgorithm(row *sql.Row) (*models.Algorithm, error) {
	var (
		a                              models.Algorithm
		formulas, conditions, problems sql.NullString
		thought, mistakes, catDesc     sql.NullString
		catParent                      sql.NullInt64
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.CategoryID, &a.DifficultyID, &a.ConceptSummary,
		&formulas, &thought, &conditions, &a.TimeComplexity, &a.SpaceComplexity,
		&problems, &mistakes, &a.IsPublished, &a.ViewCount, &a.CreatedAt, &a.UpdatedAt,
		&a.Category.ID, &a.Category.Name, &a.Category.Slug, &catDesc, &a.Category.DisplayOrder, &catParent, &a.Category.Color,
		&a.Difficulty.ID, &a.Difficulty.Name, &a.Difficulty.Color,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan algorithm: %w", err)
	}
	a.CoreFormulas = nullJSON(formulas)
	a.ApplicationConditions = nullJSON(conditions)
	a.ProblemTypes = nullJSON(problems)
	a.ThoughtProcess = nullString(thought)
	a.CommonMistakes = nullString(mistakes)
	a.Category.Description = nullString(catDesc)
	a.Category.ParentID = nullInt(catParent)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	a.CodeTemplates = []models.CodeTemplate{}
	return &a, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
)

type TemplateRepository struct {
	store
}

func NewTemplateRepository(s store) *TemplateRepository {
	return &TemplateRepository{store: s}
}

var _ TemplateRepo = (*TemplateRepository)(nil)

const (
	insertTemplateSQL = `INSERT INTO code_templates (algorithm_id, language_id, code, explanation) VALUES (?, ?, ?, ?) RETURNING id`

	selectTemplatesByAlgorithmSQL = `SELECT t.id, t.algorithm_id, t.language_id, t.code, t.explanation, ` +
		`l.id, l.name, l.slug, l.extension, l.prism_key ` +
		`FROM code_templates t JOIN programming_languages l ON l.id = t.language_id ` +
		`WHERE t.algorithm_id = ? ORDER BY l.name ASC, t.id ASC`
)

// Create inserts a template. A second template for the same language yields ErrConflict.
func (r *TemplateRepository) Create(ctx context.Context, t *models.CodeTemplate) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int
	err := r.db.QueryRowContext(ctx, r.q(insertTemplateSQL), t.AlgorithmID, t.LanguageID, t.Code, t.Explanation).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert template for algorithm %d: %w", t.AlgorithmID, ErrConflict)
		}
		return 0, fmt.Errorf("insert template for algorithm %d: %w", t.AlgorithmID, err)
	}
	t.ID = id
	return id, nil
}

func (r *TemplateRepository) ListByAlgorithm(ctx context.Context, algorithmID int) ([]models.CodeTemplate, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return listTemplates(ctx, r.db, r.dialect, algorithmID)
}

// listTemplates runs on either the pool or an open transaction.
func listTemplates(ctx context.Context, q DBTX, d Dialect, algorithmID int) ([]models.CodeTemplate, error) {
	rows, err := q.QueryContext(ctx, d.Rebind(selectTemplatesByAlgorithmSQL), algorithmID)
	if err != nil {
		return nil, fmt.Errorf("list templates for algorithm %d: %w", algorithmID, err)
	}
	defer rows.Close()

	out := make([]models.CodeTemplate, 0, 4)
	for rows.Next() {
		var (
			t           models.CodeTemplate
			explanation sql.NullString
		)
		if err := rows.Scan(
			&t.ID, &t.AlgorithmID, &t.LanguageID, &t.Code, &explanation,
			&t.Language.ID, &t.Language.Name, &t.Language.Slug, &t.Language.Extension, &t.Language.PrismKey,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Explanation = nullString(explanation)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

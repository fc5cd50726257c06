package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
)

// DifficultyRepository and LanguageRepository serve the small lookup tables.

type DifficultyRepository struct {
	store
}

func NewDifficultyRepository(s store) *DifficultyRepository {
	return &DifficultyRepository{store: s}
}

var _ DifficultyRepo = (*DifficultyRepository)(nil)

const (
	selectDifficultiesSQL     = `SELECT id, name, color FROM difficulty_levels ORDER BY id ASC`
	selectDifficultyByIDSQL   = `SELECT id, name, color FROM difficulty_levels WHERE id = ?`
	selectDifficultyByNameSQL = `SELECT id, name, color FROM difficulty_levels WHERE name = ?`
	insertDifficultySQL       = `INSERT INTO difficulty_levels (name, color) VALUES (?, ?) RETURNING id`
	selectLanguagesSQL        = `SELECT id, name, slug, extension, prism_key FROM programming_languages ORDER BY name ASC`
	selectLanguageByIDSQL     = `SELECT id, name, slug, extension, prism_key FROM programming_languages WHERE id = ?`
	selectLanguageBySlugSQL   = `SELECT id, name, slug, extension, prism_key FROM programming_languages WHERE slug = ?`
	insertLanguageSQL         = `INSERT INTO programming_languages (name, slug, extension, prism_key) VALUES (?, ?, ?, ?) RETURNING id`
)

func (r *DifficultyRepository) List(ctx context.Context) ([]models.DifficultyLevel, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectDifficultiesSQL)
	if err != nil {
		return nil, fmt.Errorf("list difficulties: %w", err)
	}
	defer rows.Close()

	out := make([]models.DifficultyLevel, 0, 3)
	for rows.Next() {
		var d models.DifficultyLevel
		if err := rows.Scan(&d.ID, &d.Name, &d.Color); err != nil {
			return nil, fmt.Errorf("scan difficulty: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate difficulties: %w", err)
	}
	return out, nil
}

// GetByID returns (nil, nil) if not found.
func (r *DifficultyRepository) GetByID(ctx context.Context, id int) (*models.DifficultyLevel, error) {
	return r.getOne(ctx, selectDifficultyByIDSQL, id)
}

// GetByName returns (nil, nil) if not found.
func (r *DifficultyRepository) GetByName(ctx context.Context, name string) (*models.DifficultyLevel, error) {
	return r.getOne(ctx, selectDifficultyByNameSQL, name)
}

func (r *DifficultyRepository) getOne(ctx context.Context, query string, arg any) (*models.DifficultyLevel, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var d models.DifficultyLevel
	err := r.db.QueryRowContext(ctx, r.q(query), arg).Scan(&d.ID, &d.Name, &d.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get difficulty %v: %w", arg, err)
	}
	return &d, nil
}

func (r *DifficultyRepository) Create(ctx context.Context, d *models.DifficultyLevel) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int
	if err := r.db.QueryRowContext(ctx, r.q(insertDifficultySQL), d.Name, d.Color).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert difficulty %q: %w", d.Name, ErrConflict)
		}
		return 0, fmt.Errorf("insert difficulty %q: %w", d.Name, err)
	}
	d.ID = id
	return id, nil
}

type LanguageRepository struct {
	store
}

func NewLanguageRepository(s store) *LanguageRepository {
	return &LanguageRepository{store: s}
}

var _ LanguageRepo = (*LanguageRepository)(nil)

func (r *LanguageRepository) List(ctx context.Context) ([]models.ProgrammingLanguage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectLanguagesSQL)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	out := make([]models.ProgrammingLanguage, 0, 4)
	for rows.Next() {
		var l models.ProgrammingLanguage
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.Extension, &l.PrismKey); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate languages: %w", err)
	}
	return out, nil
}

// GetByID returns (nil, nil) if not found.
func (r *LanguageRepository) GetByID(ctx context.Context, id int) (*models.ProgrammingLanguage, error) {
	return r.getOne(ctx, selectLanguageByIDSQL, id)
}

// GetBySlug returns (nil, nil) if not found.
func (r *LanguageRepository) GetBySlug(ctx context.Context, slug string) (*models.ProgrammingLanguage, error) {
	return r.getOne(ctx, selectLanguageBySlugSQL, slug)
}

func (r *LanguageRepository) getOne(ctx context.Context, query string, arg any) (*models.ProgrammingLanguage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var l models.ProgrammingLanguage
	err := r.db.QueryRowContext(ctx, r.q(query), arg).Scan(&l.ID, &l.Name, &l.Slug, &l.Extension, &l.PrismKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get language %v: %w", arg, err)
	}
	return &l, nil
}

func (r *LanguageRepository) Create(ctx context.Context, l *models.ProgrammingLanguage) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int
	err := r.db.QueryRowContext(ctx, r.q(insertLanguageSQL), l.Name, l.Slug, l.Extension, l.PrismKey).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert language %q: %w", l.Slug, ErrConflict)
		}
		return 0, fmt.Errorf("insert language %q: %w", l.Slug, err)
	}
	l.ID = id
	return id, nil
}

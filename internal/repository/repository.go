package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
)

type UserRepo interface {
	Create(ctx context.Context, email, passwordHash, role string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type AlgorithmRepo interface {
	List(ctx context.Context, f AlgorithmFilter) ([]models.AlgorithmSummary, int, error)
	GetBySlugAndCountView(ctx context.Context, slug string) (*models.Algorithm, error)
	GetByID(ctx context.Context, id int) (*models.Algorithm, error)
	SlugTaken(ctx context.Context, slug string, excludeID int) (bool, error)
	Create(ctx context.Context, a *models.Algorithm) (int, error)
	Update(ctx context.Context, a *models.Algorithm) error
	Delete(ctx context.Context, id int) (bool, error)
}

type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (int, error)
	DeleteTree(ctx context.Context, id int) (bool, error)
}

type DifficultyRepo interface {
	List(ctx context.Context) ([]models.DifficultyLevel, error)
	GetByID(ctx context.Context, id int) (*models.DifficultyLevel, error)
	GetByName(ctx context.Context, name string) (*models.DifficultyLevel, error)
	Create(ctx context.Context, d *models.DifficultyLevel) (int, error)
}

type LanguageRepo interface {
	List(ctx context.Context) ([]models.ProgrammingLanguage, error)
	GetByID(ctx context.Context, id int) (*models.ProgrammingLanguage, error)
	GetBySlug(ctx context.Context, slug string) (*models.ProgrammingLanguage, error)
	Create(ctx context.Context, l *models.ProgrammingLanguage) (int, error)
}

type TemplateRepo interface {
	Create(ctx context.Context, t *models.CodeTemplate) (int, error)
	ListByAlgorithm(ctx context.Context, algorithmID int) ([]models.CodeTemplate, error)
}

type Repository struct {
	Users        UserRepo
	Algorithms   AlgorithmRepo
	Categories   CategoryRepo
	Difficulties DifficultyRepo
	Languages    LanguageRepo
	Templates    TemplateRepo
}

// Options tune every repository built by NewRepository.
type Options struct {
	Dialect      Dialect
	QueryTimeout time.Duration
}

func NewRepository(db *sql.DB, opts Options) *Repository {
	s := store{db: db, dialect: opts.Dialect, timeout: opts.QueryTimeout}
	return &Repository{
		Users:        NewUserRepository(s),
		Algorithms:   NewAlgorithmRepository(s),
		Categories:   NewCategoryRepository(s),
		Difficulties: NewDifficultyRepository(s),
		Languages:    NewLanguageRepository(s),
		Templates:    NewTemplateRepository(s),
	}
}

// store is the shared handle embedded by every repository.
type store struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
}

// withTimeout bounds a single repository operation, including the wait for a pooled connection.
func (s store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s store) q(query string) string {
	return s.dialect.Rebind(query)
}

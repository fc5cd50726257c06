package service

import (
	"context"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
)

type Authorization interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	CreateUser(ctx context.Context, p CreateUserParams) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Algorithms covers the public listing/detail reads and admin authoring.
type Algorithms interface {
	List(ctx context.Context, p ListParams) (*models.AlgorithmPage, error)
	GetBySlug(ctx context.Context, slug string) (*models.Algorithm, error)
	GetByID(ctx context.Context, id int) (*models.Algorithm, error)
	Create(ctx context.Context, p AlgorithmParams) (*models.Algorithm, error)
	Update(ctx context.Context, id int, p AlgorithmPatch) (*models.Algorithm, error)
	Delete(ctx context.Context, id int) error
	AddTemplate(ctx context.Context, algorithmID int, p TemplateParams) (*models.CodeTemplate, error)
}

// Catalog exposes the lookup tables.
type Catalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, p CategoryParams) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int) error
	ListDifficulties(ctx context.Context) ([]models.DifficultyLevel, error)
	ListLanguages(ctx context.Context) ([]models.ProgrammingLanguage, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Algorithms
	Catalog
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, tokens *TokenManager) *Service {
	sanitizer := NewSanitizer()
	return &Service{
		Authorization: NewAuthService(repos.Users, tokens),
		Algorithms:    NewAlgorithmService(repos, sanitizer),
		Catalog:       NewCatalogService(repos, sanitizer),
	}
}

var (
	_ Authorization = (*AuthService)(nil)
	_ Algorithms    = (*AlgorithmService)(nil)
	_ Catalog       = (*CatalogService)(nil)
)

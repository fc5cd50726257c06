package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// maxCategoryNameLength matches the categories.name and categories.slug columns.
const maxCategoryNameLength = 100

// ValidateCategoryName rejects names and slugs too long to store.
func ValidateCategoryName(name, slug string) error {
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return fmt.Errorf("%w: category name exceeds %d characters", ErrValidation, maxCategoryNameLength)
	}
	if utf8.RuneCountInString(slug) > maxCategoryNameLength {
		return fmt.Errorf("%w: category slug exceeds %d characters", ErrValidation, maxCategoryNameLength)
	}
	return nil
}

// CatalogService serves categories, difficulty levels and languages.
type CatalogService struct {
	categories   repository.CategoryRepo
	difficulties repository.DifficultyRepo
	languages    repository.LanguageRepo
	sanitizer    *Sanitizer
}

func NewCatalogService(repos *repository.Repository, sanitizer *Sanitizer) *CatalogService {
	return &CatalogService{
		categories:   repos.Categories,
		difficulties: repos.Difficulties,
		languages:    repos.Languages,
		sanitizer:    sanitizer,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categories.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, slug)
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, p CategoryParams) (*models.Category, error) {
	name := s.sanitizer.Text(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	slug := Slugify(p.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: name %q yields an empty slug", ErrValidation, p.Name)
	}
	if err := ValidateCategoryName(name, slug); err != nil {
		return nil, err
	}
	color := strings.TrimSpace(p.Color)
	if color == "" {
		color = models.DefaultCategoryColor
	}
	if !hexColor.MatchString(color) {
		return nil, fmt.Errorf("%w: color must look like #RRGGBB", ErrValidation)
	}
	if p.ParentID != nil {
		parent, err := s.categories.GetByID(ctx, *p.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, *p.ParentID)
		}
	}

	c := &models.Category{
		Name:         name,
		Slug:         slug,
		Description:  p.Description,
		DisplayOrder: p.DisplayOrder,
		ParentID:     p.ParentID,
		Color:        color,
	}
	if _, err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, slug)
		}
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes the category subtree with its algorithms and templates.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	ok, err := s.categories.DeleteTree(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return nil
}

func (s *CatalogService) ListDifficulties(ctx context.Context) ([]models.DifficultyLevel, error) {
	return s.difficulties.List(ctx)
}

func (s *CatalogService) ListLanguages(ctx context.Context) ([]models.ProgrammingLanguage, error) {
	return s.languages.List(ctx)
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
)

const (
	maxTitleLength      = 200
	maxComplexityLength = 50
)

type AlgorithmService struct {
	algorithms   repository.AlgorithmRepo
	categories   repository.CategoryRepo
	difficulties repository.DifficultyRepo
	languages    repository.LanguageRepo
	templates    repository.TemplateRepo
	sanitizer    *Sanitizer
	now          func() time.Time
}

func NewAlgorithmService(repos *repository.Repository, sanitizer *Sanitizer) *AlgorithmService {
	return &AlgorithmService{
		algorithms:   repos.Algorithms,
		categories:   repos.Categories,
		difficulties: repos.Difficulties,
		languages:    repos.Languages,
		templates:    repos.Templates,
		sanitizer:    sanitizer,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of published algorithms.
func (s *AlgorithmService) List(ctx context.Context, p ListParams) (*models.AlgorithmPage, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	items, total, err := s.algorithms.List(ctx, p.filter())
	if err != nil {
		return nil, fmt.Errorf("list algorithms: %w", err)
	}
	if items == nil {
		items = []models.AlgorithmSummary{}
	}
	return &models.AlgorithmPage{
		Items: items,
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: PageCount(total, p.Size),
	}, nil
}

// GetBySlug returns a published algorithm and counts the view.
func (s *AlgorithmService) GetBySlug(ctx context.Context, slug string) (*models.Algorithm, error) {
	a, err := s.algorithms.GetBySlugAndCountView(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: algorithm %q", ErrNotFound, slug)
	}
	return a, nil
}

// GetByID returns any algorithm, drafts included, without counting a view.
func (s *AlgorithmService) GetByID(ctx context.Context, id int) (*models.Algorithm, error) {
	a, err := s.algorithms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: algorithm %d", ErrNotFound, id)
	}
	return a, nil
}

func (s *AlgorithmService) Create(ctx context.Context, p AlgorithmParams) (*models.Algorithm, error) {
	title := s.sanitizer.Text(p.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title %q yields an empty slug", ErrValidation, p.Title)
	}
	if strings.TrimSpace(p.ConceptSummary) == "" {
		return nil, fmt.Errorf("%w: concept_summary is required", ErrValidation)
	}
	if err := validateComplexity("time_complexity", p.TimeComplexity); err != nil {
		return nil, err
	}
	if err := validateComplexity("space_complexity", p.SpaceComplexity); err != nil {
		return nil, err
	}
	if err := validateContentJSON(p.CoreFormulas, p.ApplicationConditions, p.ProblemTypes); err != nil {
		return nil, err
	}

	taken, err := s.algorithms.SlugTaken(ctx, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: algorithm with slug %q already exists", ErrConflict, slug)
	}
	if err := s.ensureCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureDifficulty(ctx, p.DifficultyID); err != nil {
		return nil, err
	}

	now := s.now()
	a := &models.Algorithm{
		Title:                 title,
		Slug:                  slug,
		CategoryID:            p.CategoryID,
		DifficultyID:          p.DifficultyID,
		ConceptSummary:        p.ConceptSummary,
		CoreFormulas:          p.CoreFormulas,
		ThoughtProcess:        p.ThoughtProcess,
		ApplicationConditions: p.ApplicationConditions,
		TimeComplexity:        strings.TrimSpace(p.TimeComplexity),
		SpaceComplexity:       strings.TrimSpace(p.SpaceComplexity),
		ProblemTypes:          p.ProblemTypes,
		CommonMistakes:        p.CommonMistakes,
		IsPublished:           false,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	id, err := s.algorithms.Create(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: algorithm with slug %q already exists", ErrConflict, slug)
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Update applies a partial change. A new title regenerates the slug.
func (s *AlgorithmService) Update(ctx context.Context, id int, p AlgorithmPatch) (*models.Algorithm, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		title := s.sanitizer.Text(*p.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		slug := Slugify(title)
		if slug == "" {
			return nil, fmt.Errorf("%w: title %q yields an empty slug", ErrValidation, *p.Title)
		}
		if slug != a.Slug {
			taken, err := s.algorithms.SlugTaken(ctx, slug, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: algorithm with slug %q already exists", ErrConflict, slug)
			}
			a.Slug = slug
		}
		a.Title = title
	}
	if p.CategoryID != nil {
		if err := s.ensureCategory(ctx, *p.CategoryID); err != nil {
			return nil, err
		}
		a.CategoryID = *p.CategoryID
	}
	if p.DifficultyID != nil {
		if err := s.ensureDifficulty(ctx, *p.DifficultyID); err != nil {
			return nil, err
		}
		a.DifficultyID = *p.DifficultyID
	}
	if p.ConceptSummary != nil {
		if strings.TrimSpace(*p.ConceptSummary) == "" {
			return nil, fmt.Errorf("%w: concept_summary must not be empty", ErrValidation)
		}
		a.ConceptSummary = *p.ConceptSummary
	}
	if p.TimeComplexity != nil {
		if err := validateComplexity("time_complexity", *p.TimeComplexity); err != nil {
			return nil, err
		}
		a.TimeComplexity = strings.TrimSpace(*p.TimeComplexity)
	}
	if p.SpaceComplexity != nil {
		if err := validateComplexity("space_complexity", *p.SpaceComplexity); err != nil {
			return nil, err
		}
		a.SpaceComplexity = strings.TrimSpace(*p.SpaceComplexity)
	}
	if err := validateContentJSON(p.CoreFormulas, p.ApplicationConditions, p.ProblemTypes); err != nil {
		return nil, err
	}
	if p.CoreFormulas != nil {
		a.CoreFormulas = p.CoreFormulas
	}
	if p.ApplicationConditions != nil {
		a.ApplicationConditions = p.ApplicationConditions
	}
	if p.ProblemTypes != nil {
		a.ProblemTypes = p.ProblemTypes
	}
	if p.ThoughtProcess != nil {
		a.ThoughtProcess = p.ThoughtProcess
	}
	if p.CommonMistakes != nil {
		a.CommonMistakes = p.CommonMistakes
	}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
	a.UpdatedAt = s.now()

	if err := s.algorithms.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: algorithm with slug %q already exists", ErrConflict, a.Slug)
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the algorithm together with its code templates.
func (s *AlgorithmService) Delete(ctx context.Context, id int) error {
	ok, err := s.algorithms.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: algorithm %d", ErrNotFound, id)
	}
	return nil
}

// AddTemplate attaches code in one language. One template per language.
func (s *AlgorithmService) AddTemplate(ctx context.Context, algorithmID int, p TemplateParams) (*models.CodeTemplate, error) {
	if strings.TrimSpace(p.Code) == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}
	a, err := s.algorithms.GetByID(ctx, algorithmID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: algorithm %d", ErrNotFound, algorithmID)
	}
	lang, err := s.languages.GetByID(ctx, p.LanguageID)
	if err != nil {
		return nil, err
	}
	if lang == nil {
		return nil, fmt.Errorf("%w: language %d", ErrNotFound, p.LanguageID)
	}

	t := &models.CodeTemplate{
		AlgorithmID: algorithmID,
		LanguageID:  lang.ID,
		Code:        p.Code,
		Explanation: p.Explanation,
		Language:    *lang,
	}
	if _, err := s.templates.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: code template for %s already exists for this algorithm", ErrConflict, lang.Name)
		}
		return nil, err
	}
	return t, nil
}

func (s *AlgorithmService) ensureCategory(ctx context.Context, id int) error {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return nil
}

func (s *AlgorithmService) ensureDifficulty(ctx context.Context, id int) error {
	d, err := s.difficulties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: difficulty level %d", ErrNotFound, id)
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLength)
	}
	return nil
}

func validateComplexity(field, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if utf8.RuneCountInString(v) > maxComplexityLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, field, maxComplexityLength)
	}
	return nil
}

// validateContentJSON checks the document kinds: formulas and problem types
// are arrays, application conditions an object. Absent or null is fine.
func validateContentJSON(formulas, conditions, problems json.RawMessage) error {
	for _, f := range []struct {
		name string
		raw  json.RawMessage
		want byte
	}{
		{"core_formulas", formulas, '['},
		{"application_conditions", conditions, '{'},
		{"problem_types", problems, '['},
	} {
		raw := bytes.TrimSpace(f.raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		if raw[0] != f.want || !json.Valid(raw) {
			return fmt.Errorf("%w: %s has the wrong shape", ErrValidation, f.name)
		}
	}
	return nil
}

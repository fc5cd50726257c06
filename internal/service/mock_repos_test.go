package service

import (
	"context"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
)

// Lightweight in-test mocks for the repository interfaces. Unset funcs return zero values.

type mockUserRepo struct {
	CreateFn     func(email, hash, role string) (int, error)
	GetByEmailFn func(email string) (*models.User, error)
	GetByIDFn    func(id int) (*models.User, error)

	emails []string
}

func (m *mockUserRepo) Create(_ context.Context, email, hash, role string) (int, error) {
	if m.CreateFn == nil {
		return 0, nil
	}
	return m.CreateFn(email, hash, role)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.emails = append(m.emails, email)
	if m.GetByEmailFn == nil {
		return nil, nil
	}
	return m.GetByEmailFn(email)
}

func (m *mockUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	if m.GetByIDFn == nil {
		return nil, nil
	}
	return m.GetByIDFn(id)
}

type mockAlgorithmRepo struct {
	ListFn      func(f repository.AlgorithmFilter) ([]models.AlgorithmSummary, int, error)
	GetBySlugFn func(slug string) (*models.Algorithm, error)
	GetByIDFn   func(id int) (*models.Algorithm, error)
	SlugTakenFn func(slug string, excludeID int) (bool, error)
	CreateFn    func(a *models.Algorithm) (int, error)
	UpdateFn    func(a *models.Algorithm) error
	DeleteFn    func(id int) (bool, error)

	lastFilter repository.AlgorithmFilter
	updated    *models.Algorithm
	created    *models.Algorithm
}

func (m *mockAlgorithmRepo) List(_ context.Context, f repository.AlgorithmFilter) ([]models.AlgorithmSummary, int, error) {
	m.lastFilter = f
	if m.ListFn == nil {
		return nil, 0, nil
	}
	return m.ListFn(f)
}

func (m *mockAlgorithmRepo) GetBySlugAndCountView(_ context.Context, slug string) (*models.Algorithm, error) {
	if m.GetBySlugFn == nil {
		return nil, nil
	}
	return m.GetBySlugFn(slug)
}

func (m *mockAlgorithmRepo) GetByID(_ context.Context, id int) (*models.Algorithm, error) {
	if m.GetByIDFn == nil {
		return nil, nil
	}
	return m.GetByIDFn(id)
}

func (m *mockAlgorithmRepo) SlugTaken(_ context.Context, slug string, excludeID int) (bool, error) {
	if m.SlugTakenFn == nil {
		return false, nil
	}
	return m.SlugTakenFn(slug, excludeID)
}

func (m *mockAlgorithmRepo) Create(_ context.Context, a *models.Algorithm) (int, error) {
	m.created = a
	if m.CreateFn == nil {
		return 1, nil
	}
	return m.CreateFn(a)
}

func (m *mockAlgorithmRepo) Update(_ context.Context, a *models.Algorithm) error {
	m.updated = a
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(a)
}

func (m *mockAlgorithmRepo) Delete(_ context.Context, id int) (bool, error) {
	if m.DeleteFn == nil {
		return true, nil
	}
	return m.DeleteFn(id)
}

type mockCategoryRepo struct {
	categories map[int]*models.Category
	CreateFn   func(c *models.Category) (int, error)
	DeleteFn   func(id int) (bool, error)
}

func (m *mockCategoryRepo) List(context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id int) (*models.Category, error) {
	return m.categories[id], nil
}

func (m *mockCategoryRepo) Create(_ context.Context, c *models.Category) (int, error) {
	if m.CreateFn == nil {
		c.ID = 100
		return c.ID, nil
	}
	return m.CreateFn(c)
}

func (m *mockCategoryRepo) DeleteTree(_ context.Context, id int) (bool, error) {
	if m.DeleteFn == nil {
		_, ok := m.categories[id]
		return ok, nil
	}
	return m.DeleteFn(id)
}

type mockDifficultyRepo struct {
	levels map[int]*models.DifficultyLevel
}

func (m *mockDifficultyRepo) List(context.Context) ([]models.DifficultyLevel, error) {
	out := make([]models.DifficultyLevel, 0, len(m.levels))
	for _, d := range m.levels {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDifficultyRepo) GetByID(_ context.Context, id int) (*models.DifficultyLevel, error) {
	return m.levels[id], nil
}

func (m *mockDifficultyRepo) GetByName(_ context.Context, name string) (*models.DifficultyLevel, error) {
	for _, d := range m.levels {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockDifficultyRepo) Create(_ context.Context, d *models.DifficultyLevel) (int, error) {
	return d.ID, nil
}

type mockLanguageRepo struct {
	langs map[int]*models.ProgrammingLanguage
}

func (m *mockLanguageRepo) List(context.Context) ([]models.ProgrammingLanguage, error) {
	out := make([]models.ProgrammingLanguage, 0, len(m.langs))
	for _, l := range m.langs {
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockLanguageRepo) GetByID(_ context.Context, id int) (*models.ProgrammingLanguage, error) {
	return m.langs[id], nil
}

func (m *mockLanguageRepo) GetBySlug(_ context.Context, slug string) (*models.ProgrammingLanguage, error) {
	for _, l := range m.langs {
		if l.Slug == slug {
			return l, nil
		}
	}
	return nil, nil
}

func (m *mockLanguageRepo) Create(_ context.Context, l *models.ProgrammingLanguage) (int, error) {
	return l.ID, nil
}

type mockTemplateRepo struct {
	CreateFn func(t *models.CodeTemplate) (int, error)
}

func (m *mockTemplateRepo) Create(_ context.Context, t *models.CodeTemplate) (int, error) {
	if m.CreateFn == nil {
		t.ID = 1
		return 1, nil
	}
	return m.CreateFn(t)
}

func (m *mockTemplateRepo) ListByAlgorithm(context.Context, int) ([]models.CodeTemplate, error) {
	return nil, nil
}

// newMockRepos returns a Repository with category 1, difficulty 1 and language 1 present.
func newMockRepos() (*repository.Repository, *mockAlgorithmRepo, *mockTemplateRepo) {
	algs := &mockAlgorithmRepo{}
	tpls := &mockTemplateRepo{}
	return &repository.Repository{
		Users:      &mockUserRepo{},
		Algorithms: algs,
		Categories: &mockCategoryRepo{categories: map[int]*models.Category{
			1: {ID: 1, Name: "Search", Slug: "search", Color: models.DefaultCategoryColor},
		}},
		Difficulties: &mockDifficultyRepo{levels: map[int]*models.DifficultyLevel{
			1: {ID: 1, Name: "Easy", Color: "#22c55e"},
		}},
		Languages: &mockLanguageRepo{langs: map[int]*models.ProgrammingLanguage{
			1: {ID: 1, Name: "Python", Slug: "python", Extension: ".py", PrismKey: "python"},
		}},
		Templates: tpls,
	}, algs, tpls
}

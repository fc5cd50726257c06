// Package seed loads reference data, the first admin account and generated
// algorithm content into an empty or partially filled database.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CHOJUNGHO96/algo-reference/internal/logger"
	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"
)

// minTemplateLength filters out stub code blocks from generated content.
const minTemplateLength = 50

var baseDifficulties = []models.DifficultyLevel{
	{Name: "Easy", Color: "#22c55e"},
	{Name: "Medium", Color: "#f59e0b"},
	{Name: "Hard", Color: "#ef4444"},
}

var baseLanguages = []models.ProgrammingLanguage{
	{Name: "Python", Slug: "python", Extension: ".py", PrismKey: "python"},
	{Name: "C++", Slug: "cpp", Extension: ".cpp", PrismKey: "cpp"},
	{Name: "Java", Slug: "java", Extension: ".java", PrismKey: "java"},
}

// Stats counts what a run created or skipped.
type Stats struct {
	Algorithms   int
	Templates    int
	Categories   int
	Difficulties int
	Languages    int
	Skipped      int
	Errors       int
}

type Seeder struct {
	repos     *repository.Repository
	auth      service.Authorization
	sanitizer *service.Sanitizer
	log       *logger.Logger

	stats Stats
}

func New(repos *repository.Repository, auth service.Authorization, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{repos: repos, auth: auth, sanitizer: service.NewSanitizer(), log: log}
}

// Stats returns the counters accumulated so far.
func (s *Seeder) Stats() Stats { return s.stats }

// EnsureAdmin creates an admin with the given credentials unless the email
// is already registered. It reports whether a user was created.
func (s *Seeder) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.auth.GetUserByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("look up admin: %w", err)
	}
	if existing != nil {
		s.log.Infow("seed_admin_exists", "email", existing.Email, "role", existing.Role)
		return false, nil
	}
	u, err := s.auth.CreateUser(ctx, service.CreateUserParams{
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	s.log.Infow("seed_admin_created", "email", u.Email, "user_id", u.ID)
	return true, nil
}

// SeedBase inserts the difficulty levels and languages that are missing and
// returns difficulty ids keyed by name.
func (s *Seeder) SeedBase(ctx context.Context) (map[string]int, error) {
	difficulties := make(map[string]int, len(baseDifficulties))
	for _, d := range baseDifficulties {
		existing, err := s.repos.Difficulties.GetByName(ctx, d.Name)
		if err != nil {
			return nil, fmt.Errorf("look up difficulty %s: %w", d.Name, err)
		}
		if existing != nil {
			difficulties[d.Name] = existing.ID
			continue
		}
		id, err := s.repos.Difficulties.Create(ctx, &d)
		if err != nil {
			return nil, fmt.Errorf("create difficulty %s: %w", d.Name, err)
		}
		difficulties[d.Name] = id
		s.stats.Difficulties++
		s.log.Infow("seed_difficulty_created", "name", d.Name)
	}

	for _, l := range baseLanguages {
		existing, err := s.repos.Languages.GetBySlug(ctx, l.Slug)
		if err != nil {
			return nil, fmt.Errorf("look up language %s: %w", l.Slug, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.repos.Languages.Create(ctx, &l); err != nil {
			return nil, fmt.Errorf("create language %s: %w", l.Slug, err)
		}
		s.stats.Languages++
		s.log.Infow("seed_language_created", "name", l.Name)
	}
	return difficulties, nil
}

// content is one generated algorithm document.
type content struct {
	Title                 string            `json:"title"`
	Category              string            `json:"category"`
	Difficulty            string            `json:"difficulty"`
	ConceptSummary        string            `json:"concept_summary"`
	CoreFormulas          json.RawMessage   `json:"core_formulas"`
	ThoughtProcess        *string           `json:"thought_process"`
	ApplicationConditions json.RawMessage   `json:"application_conditions"`
	TimeComplexity        string            `json:"time_complexity"`
	SpaceComplexity       string            `json:"space_complexity"`
	ProblemTypes          json.RawMessage   `json:"problem_types"`
	CommonMistakes        *string           `json:"common_mistakes"`
	CodeTemplates         map[string]string `json:"code_templates"`
}

func (c *content) validate() error {
	switch {
	case strings.TrimSpace(c.Title) == "":
		return errors.New("title is missing")
	case strings.TrimSpace(c.Category) == "":
		return errors.New("category is missing")
	case strings.TrimSpace(c.ConceptSummary) == "":
		return errors.New("concept_summary is missing")
	case strings.TrimSpace(c.TimeComplexity) == "" || strings.TrimSpace(c.SpaceComplexity) == "":
		return errors.New("complexity is missing")
	}
	return nil
}

// ContentFiles lists the *.json documents in dir, skipping cost reports.
func ContentFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	files := matches[:0]
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "cost_") {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// ImportDir seeds base data and imports every content file in dir. A bad
// file is counted in Stats.Errors and does not stop the run.
func (s *Seeder) ImportDir(ctx context.Context, dir string) (Stats, error) {
	if _, err := os.Stat(dir); err != nil {
		return s.stats, fmt.Errorf("content directory: %w", err)
	}
	files, err := ContentFiles(dir)
	if err != nil {
		return s.stats, fmt.Errorf("list content: %w", err)
	}
	if len(files) == 0 {
		return s.stats, fmt.Errorf("no content files in %s", dir)
	}

	difficulties, err := s.SeedBase(ctx)
	if err != nil {
		return s.stats, err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		if err := s.importFile(ctx, path, difficulties); err != nil {
			s.stats.Errors++
			s.log.Errorw("seed_content_failed", "file", filepath.Base(path), "err", err)
		}
	}
	s.log.Infow("seed_content_done",
		"algorithms", s.stats.Algorithms,
		"templates", s.stats.Templates,
		"categories", s.stats.Categories,
		"skipped", s.stats.Skipped,
		"errors", s.stats.Errors,
	)
	return s.stats, nil
}

func (s *Seeder) importFile(ctx context.Context, path string, difficulties map[string]int) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var c content
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}

	title := s.sanitizer.Text(c.Title)
	slug := service.Slugify(title)
	if slug == "" {
		return fmt.Errorf("title %q yields an empty slug", c.Title)
	}
	taken, err := s.repos.Algorithms.SlugTaken(ctx, slug, 0)
	if err != nil {
		return err
	}
	if taken {
		s.stats.Skipped++
		s.log.Infow("seed_algorithm_skipped", "slug", slug)
		return nil
	}

	difficultyID, ok := difficulties[c.Difficulty]
	if !ok {
		return fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	category, err := s.findOrCreateCategory(ctx, c.Category)
	if err != nil {
		return err
	}

	a := &models.Algorithm{
		Title:                 title,
		Slug:                  slug,
		CategoryID:            category.ID,
		DifficultyID:          difficultyID,
		ConceptSummary:        c.ConceptSummary,
		CoreFormulas:          orDefault(c.CoreFormulas, "[]"),
		ThoughtProcess:        c.ThoughtProcess,
		ApplicationConditions: orDefault(c.ApplicationConditions, "{}"),
		TimeComplexity:        strings.TrimSpace(c.TimeComplexity),
		SpaceComplexity:       strings.TrimSpace(c.SpaceComplexity),
		ProblemTypes:          orDefault(c.ProblemTypes, "[]"),
		CommonMistakes:        c.CommonMistakes,
		IsPublished:           true,
	}
	if _, err := s.repos.Algorithms.Create(ctx, a); err != nil {
		return err
	}

	templates, err := s.addTemplates(ctx, a.ID, c.CodeTemplates)
	if err != nil {
		if _, derr := s.repos.Algorithms.Delete(ctx, a.ID); derr != nil {
			s.log.Errorw("seed_algorithm_cleanup_failed", "slug", slug, "err", derr)
		}
		return fmt.Errorf("templates for %s: %w", slug, err)
	}

	s.stats.Algorithms++
	s.stats.Templates += templates
	s.log.Infow("seed_algorithm_created", "slug", slug, "templates", templates)
	return nil
}

func (s *Seeder) addTemplates(ctx context.Context, algorithmID int, code map[string]string) (int, error) {
	keys := make([]string, 0, len(code))
	for k := range code {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	created := 0
	for _, langSlug := range keys {
		body := code[langSlug]
		if len(strings.TrimSpace(body)) < minTemplateLength {
			continue
		}
		lang, err := s.repos.Languages.GetBySlug(ctx, langSlug)
		if err != nil {
			return created, err
		}
		if lang == nil {
			continue
		}
		if _, err := s.repos.Templates.Create(ctx, &models.CodeTemplate{
			AlgorithmID: algorithmID,
			LanguageID:  lang.ID,
			Code:        body,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Seeder) findOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = s.sanitizer.Text(name)
	slug := service.Slugify(strings.ReplaceAll(name, "/", " "))
	if slug == "" {
		return nil, fmt.Errorf("category %q yields an empty slug", name)
	}
	if err := service.ValidateCategoryName(name, slug); err != nil {
		return nil, err
	}

	existing, err := s.repos.Categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	desc := "Algorithms related to " + name
	c := &models.Category{
		Name:         name,
		Slug:         slug,
		Description:  &desc,
		DisplayOrder: s.stats.Categories,
		Color:        models.DefaultCategoryColor,
	}
	if _, err := s.repos.Categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category %s: %w", slug, err)
	}
	s.stats.Categories++
	s.log.Infow("seed_category_created", "slug", slug)
	return c, nil
}

func orDefault(raw json.RawMessage, def string) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return json.RawMessage(def)
	}
	return raw
}

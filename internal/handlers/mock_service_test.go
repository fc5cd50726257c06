package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginPair   *service.TokenPair
	loginErr    error
	refreshPair *service.TokenPair
	refreshErr  error
	createErr   error
	tokens      map[string]*models.User // access token -> user

	lastLoginEmail    string
	lastLoginPassword string
	lastRefreshToken  string
	lastCreate        service.CreateUserParams
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*service.TokenPair, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginPair, m.loginErr
}
func (m *mockAuth) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	m.lastRefreshToken = refreshToken
	return m.refreshPair, m.refreshErr
}
func (m *mockAuth) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	if u, ok := m.tokens[accessToken]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %w", service.ErrUnauthenticated, service.ErrTokenInvalid)
}
func (m *mockAuth) CreateUser(ctx context.Context, p service.CreateUserParams) (*models.User, error) {
	m.lastCreate = p
	if m.createErr != nil {
		return nil, m.createErr
	}
	role := p.Role
	if role == "" {
		role = models.RoleEditor
	}
	return &models.User{ID: 99, Email: p.Email, Role: role}, nil
}
func (m *mockAuth) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.tokens {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type mockAlgorithms struct {
	page        *models.AlgorithmPage
	listErr     error
	bySlug      map[string]*models.Algorithm
	byID        map[int]*models.Algorithm
	createErr   error
	updateErr   error
	deleteErr   error
	templateErr error

	lastList     service.ListParams
	listCalls    int
	lastCreate   service.AlgorithmParams
	lastPatch    service.AlgorithmPatch
	deletedID    int
	lastTemplate service.TemplateParams
}

func (m *mockAlgorithms) List(ctx context.Context, p service.ListParams) (*models.AlgorithmPage, error) {
	m.listCalls++
	m.lastList = p
	return m.page, m.listErr
}
func (m *mockAlgorithms) GetBySlug(ctx context.Context, slug string) (*models.Algorithm, error) {
	if a, ok := m.bySlug[slug]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: algorithm %q", service.ErrNotFound, slug)
}
func (m *mockAlgorithms) GetByID(ctx context.Context, id int) (*models.Algorithm, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: algorithm %d", service.ErrNotFound, id)
}
func (m *mockAlgorithms) Create(ctx context.Context, p service.AlgorithmParams) (*models.Algorithm, error) {
	m.lastCreate = p
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Algorithm{ID: 7, Title: p.Title, Slug: service.Slugify(p.Title)}, nil
}
func (m *mockAlgorithms) Update(ctx context.Context, id int, p service.AlgorithmPatch) (*models.Algorithm, error) {
	m.lastPatch = p
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	a := &models.Algorithm{ID: id}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
	return a, nil
}
func (m *mockAlgorithms) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.deleteErr
}
func (m *mockAlgorithms) AddTemplate(ctx context.Context, algorithmID int, p service.TemplateParams) (*models.CodeTemplate, error) {
	m.lastTemplate = p
	if m.templateErr != nil {
		return nil, m.templateErr
	}
	return &models.CodeTemplate{ID: 1, AlgorithmID: algorithmID, LanguageID: p.LanguageID, Code: p.Code}, nil
}

type mockCatalog struct {
	categories   []models.Category
	difficulties []models.DifficultyLevel
	languages    []models.ProgrammingLanguage
	listErr      error
	createErr    error
	deleteErr    error

	lastCreate service.CategoryParams
	deletedID  int
}

func (m *mockCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.categories, m.listErr
}
func (m *mockCatalog) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	for i := range m.categories {
		if m.categories[i].Slug == slug {
			return &m.categories[i], nil
		}
	}
	return nil, fmt.Errorf("%w: category %q", service.ErrNotFound, slug)
}
func (m *mockCatalog) CreateCategory(ctx context.Context, p service.CategoryParams) (*models.Category, error) {
	m.lastCreate = p
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Category{ID: 5, Name: p.Name, Slug: service.Slugify(p.Name), Color: models.DefaultCategoryColor}, nil
}
func (m *mockCatalog) DeleteCategory(ctx context.Context, id int) error {
	m.deletedID = id
	return m.deleteErr
}
func (m *mockCatalog) ListDifficulties(ctx context.Context) ([]models.DifficultyLevel, error) {
	return m.difficulties, m.listErr
}
func (m *mockCatalog) ListLanguages(ctx context.Context) ([]models.ProgrammingLanguage, error) {
	return m.languages, m.listErr
}

// ---- Shared Test Helpers ----

const (
	adminToken  = "admin-token"
	editorToken = "editor-token"
)

var (
	testAdmin  = &models.User{ID: 1, Email: "admin@algoref.com", Role: models.RoleAdmin}
	testEditor = &models.User{ID: 2, Email: "editor@algoref.com", Role: models.RoleEditor}
)

func newMockAuth() *mockAuth {
	return &mockAuth{tokens: map[string]*models.User{
		adminToken:  testAdmin,
		editorToken: testEditor,
	}}
}

type testServices struct {
	auth       *mockAuth
	algorithms *mockAlgorithms
	catalog    *mockCatalog
}

func newTestServices() *testServices {
	return &testServices{
		auth:       newMockAuth(),
		algorithms: &mockAlgorithms{},
		catalog:    &mockCatalog{},
	}
}

func (ts *testServices) service() *service.Service {
	return &service.Service{
		Authorization: ts.auth,
		Algorithms:    ts.algorithms,
		Catalog:       ts.catalog,
	}
}

func newTestRouter(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

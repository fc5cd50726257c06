package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"sync"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
)

const (
	tokenTypeBearer   = "bearer"
	minPasswordLength = 6
)

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

// AuthService handles user auth logic
type AuthService struct {
	users  repository.UserRepo
	tokens *TokenManager
}

func NewAuthService(users repository.UserRepo, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck spends the same bcrypt cost as a real comparison so
// unknown emails are not distinguishable by latency.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("not-a-real-password")
	})
	_ = VerifyPassword(password, dummyHash)
}

// Login checks credentials and returns a fresh token pair. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if u == nil {
		burnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issuePair(u.ID)
}

// Refresh trades a valid refresh token for a new pair. The presented token is
// not revoked and stays usable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return s.issuePair(u.ID)
}

// CurrentUser resolves an access token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrUnauthenticated, id)
	}
	return u, nil
}

// CreateUser registers a new account. Duplicate emails yield ErrConflict.
func (s *AuthService) CreateUser(ctx context.Context, p CreateUserParams) (*models.User, error) {
	email := normalizeEmail(p.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, p.Email)
	}
	if len(p.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	role := p.Role
	if role == "" {
		role = models.RoleEditor
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	id, err := s.users.Create(ctx, email, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: email %q already registered", ErrConflict, email)
		}
		return nil, err
	}
	return &models.User{ID: id, Email: email, PasswordHash: hash, Role: role}, nil
}

// GetUserByEmail returns (nil, nil) when absent. Used by bootstrap tooling.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetByEmail(ctx, normalizeEmail(email))
}

func (s *AuthService) issuePair(userID int) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// RequireAdmin passes admins through and rejects everyone else.
func RequireAdmin(u *models.User) (*models.User, error) {
	return RequireRole(u, models.RoleAdmin)
}

// RequireRole passes u through when it holds one of roles.
func RequireRole(u *models.User, roles ...string) (*models.User, error) {
	if u == nil {
		return nil, ErrUnauthenticated
	}
	if !slices.Contains(roles, u.Role) {
		return nil, fmt.Errorf("%w: role %q not allowed", ErrForbidden, u.Role)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

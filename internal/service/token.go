package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/CHOJUNGHO96/algo-reference/internal/config"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are carried by both token kinds; Type keeps them apart even if secrets leak into each other.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, c.Subject)
	}
	return id, nil
}

// TokenManager mints and verifies HS256 access and refresh tokens.
type TokenManager struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the wall clock, for tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

func (m *TokenManager) IssueAccess(userID int) (string, error) {
	return m.issue(userID, TokenTypeAccess, m.accessKey, m.accessTTL)
}

func (m *TokenManager) IssueRefresh(userID int) (string, error) {
	return m.issue(userID, TokenTypeRefresh, m.refreshKey, m.refreshTTL)
}

func (m *TokenManager) VerifyAccess(token string) (*Claims, error) {
	return m.verify(token, TokenTypeAccess, m.accessKey)
}

func (m *TokenManager) VerifyRefresh(token string) (*Claims, error) {
	return m.verify(token, TokenTypeRefresh, m.refreshKey)
}

func (m *TokenManager) issue(userID int, typ string, key []byte, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Type: typ,
	})
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (m *TokenManager) verify(raw, typ string, key []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrTokenInvalid, typ, claims.Type)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// classifyTokenError folds jwt's error tree into our three kinds.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}

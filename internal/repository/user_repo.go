package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
)

type UserRepository struct {
	store
}

func NewUserRepository(s store) *UserRepository {
	return &UserRepository{store: s}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserRepository)(nil)

const (
	insertUserSQL        = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?) RETURNING id`
	selectUserByEmailSQL = `SELECT id, email, password_hash, role FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, email, password_hash, role FROM users WHERE id = ?`
)

// Create inserts a new user and returns its ID. A taken email yields ErrConflict.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, role string) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int
	err := r.db.QueryRowContext(ctx, r.q(insertUserSQL), email, passwordHash, role).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user %q: %w", email, ErrConflict)
		}
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	return id, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUserByEmailSQL, email)
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, selectUserByIDSQL, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, r.q(query), arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %v: %w", arg, err)
	}
	return &u, nil
}

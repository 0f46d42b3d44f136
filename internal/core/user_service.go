package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the reference deployment's hashing cost.
const bcryptCost = 12

// UserService handles registration and credential verification. Registration
// creates the organization and its first admin user atomically.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	// Authenticate verifies credentials. Any failure (unknown email, wrong
	// password) yields the same generic error to avoid account enumeration.
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, userID int) (*User, error)
}

type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	OrganizationName string
}

type userService struct {
	pool *pgxpool.Pool
}

func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.OrganizationName) == "" {
		return nil, &ValidationError{Field: "email", Err: errors.New("name, email, password and organization name are required")}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	var orgID int
	err = tx.QueryRow(ctx,
		"INSERT INTO organizations (name) VALUES ($1) RETURNING id",
		strings.TrimSpace(in.OrganizationName),
	).Scan(&orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	u := &User{}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (organization_id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, 'admin')
		RETURNING id, organization_id, name, email, password_hash, role, is_active, created_at
	`, orgID, strings.TrimSpace(in.Name), email, string(hash)).Scan(
		&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, email, password_hash, role, is_active, created_at
		FROM users
		WHERE email = $1 AND is_active = true
		LIMIT 1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, email, password_hash, role, is_active, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user id=%d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user id=%d: %w", userID, err)
	}
	return u, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vaultapi/internal/auth"
	"vaultapi/internal/common"
	"vaultapi/internal/config"
	"vaultapi/internal/model"
	"vaultapi/internal/repository"
)

// UserService manages accounts: registration, login, activation, and
// resolving a username-or-email to an account record.
type UserService interface {
	// Register creates a disabled account with a bcrypt password hash.
	// An existing username or email yields ErrConflict.
	Register(ctx context.Context, username, email, password string) (*model.User, error)

	// Login returns a signed session token on valid credentials.
	Login(ctx context.Context, username, password string) (string, error)

	// ResolveAccount looks up by username first, then by email.
	ResolveAccount(ctx context.Context, usernameOrEmail string) (*model.User, error)

	// Activate enables the account after passcode verification and returns a
	// session token.
	Activate(ctx context.Context, username string) (string, error)
}

type userService struct {
	repo      repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository, cfg config.AuthConfig) UserService {
	return &userService{
		repo:      repo,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrInvalidInput)
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", common.ErrConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", common.ErrConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Enabled:      false,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(u.Username, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

func (s *userService) ResolveAccount(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	if usernameOrEmail == "" {
		return nil, fmt.Errorf("%w: username or email is required", common.ErrInvalidInput)
	}

	u, err := s.repo.FindByUsername(ctx, usernameOrEmail)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find by username: %w", err)
	}

	u, err = s.repo.FindByEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no account for %q", common.ErrNotFound, usernameOrEmail)
		}
		return nil, fmt.Errorf("find by email: %w", err)
	}
	return u, nil
}

func (s *userService) Activate(ctx context.Context, username string) (string, error) {
	if err := s.repo.SetEnabled(ctx, username); err != nil {
		return "", fmt.Errorf("enable account: %w", err)
	}

	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

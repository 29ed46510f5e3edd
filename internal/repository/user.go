package repository

import (
	"context"

	"vaultapi/internal/model"
)

// UserRepository defines data access for account records.
type UserRepository interface {
	// Create inserts a new user row and returns the stored row.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByUsername returns the user with the given username, or sql.ErrNoRows.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail returns the user with the given email, or sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// SetEnabled marks the account as activated.
	SetEnabled(ctx context.Context, username string) error
}

package repository

import (
	"context"

	"vaultapi/internal/model"
)

// FileRepository defines data access for stored file metadata using SQL
// queries only. No business logic here — strictly persistence operations.
type FileRepository interface {
	// Create inserts a new stored file record and returns the stored row.
	Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error)

	// FindByID returns a stored file by its ID.
	FindByID(ctx context.Context, id string) (*model.StoredFile, error)

	// ListByOwner returns all files owned by the account, newest first.
	ListByOwner(ctx context.Context, owner string) ([]model.StoredFile, error)

	// ListSharedWith returns the files the account can read through access
	// grants, newest grant first. Duplicate grants collapse to one row per file.
	ListSharedWith(ctx context.Context, account string) ([]model.SharedFile, error)
}

// GrantRepository defines data access for access grants. Grants are
// append-only rows; duplicates are permitted.
type GrantRepository interface {
	// Create appends a new access grant row.
	Create(ctx context.Context, g *model.AccessGrant) (*model.AccessGrant, error)

	// Exists reports whether at least one grant matches (fileID, account).
	Exists(ctx context.Context, fileID, account string) (bool, error)
}

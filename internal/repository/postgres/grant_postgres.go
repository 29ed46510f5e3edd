package postgres

import (
	"context"
	"database/sql"

	"vaultapi/internal/model"
	"vaultapi/internal/repository"
)

// GrantPostgres is a PostgreSQL implementation of repository.GrantRepository.
type GrantPostgres struct {
	db *sql.DB
}

// NewGrantPostgres creates a new GrantPostgres repository.
func NewGrantPostgres(db *sql.DB) *GrantPostgres {
	return &GrantPostgres{db: db}
}

var _ repository.GrantRepository = (*GrantPostgres)(nil)

// Create appends a new access grant row and returns the stored record.
// There is no uniqueness constraint: repeated shares append more rows.
func (r *GrantPostgres) Create(ctx context.Context, g *model.AccessGrant) (*model.AccessGrant, error) {
	const q = `
		INSERT INTO access_grants (id, file_id, shared_by, shared_with, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, file_id, shared_by, shared_with, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		g.ID,
		g.FileID,
		g.SharedBy,
		g.SharedWith,
		g.CreatedAt,
	)
	var out model.AccessGrant
	if err := row.Scan(
		&out.ID,
		&out.FileID,
		&out.SharedBy,
		&out.SharedWith,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// Exists is a set-membership query over possibly-duplicate grant rows.
func (r *GrantPostgres) Exists(ctx context.Context, fileID, account string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM access_grants WHERE file_id = $1 AND shared_with = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, fileID, account).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

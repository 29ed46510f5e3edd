package postgres

import (
	"context"
	"database/sql"

	"vaultapi/internal/model"
	"vaultapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

// Create inserts a new stored file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error) {
	const q = `
		INSERT INTO stored_files (id, filename, content_type, owner, storage_path, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, filename, content_type, owner, storage_path, size, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Filename,
		f.ContentType,
		f.Owner,
		f.StoragePath,
		f.Size,
		f.CreatedAt,
	)
	var out model.StoredFile
	if err := row.Scan(
		&out.ID,
		&out.Filename,
		&out.ContentType,
		&out.Owner,
		&out.StoragePath,
		&out.Size,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single stored file by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.StoredFile, error) {
	const q = `
		SELECT id, filename, content_type, owner, storage_path, size, created_at
		FROM stored_files
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var f model.StoredFile
	if err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.ContentType,
		&f.Owner,
		&f.StoragePath,
		&f.Size,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByOwner returns the account's own files, newest first.
func (r *FilePostgres) ListByOwner(ctx context.Context, owner string) ([]model.StoredFile, error) {
	const q = `
		SELECT id, filename, content_type, owner, storage_path, size, created_at
		FROM stored_files
		WHERE owner = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredFile, 0)
	for rows.Next() {
		var f model.StoredFile
		if err := rows.Scan(
			&f.ID,
			&f.Filename,
			&f.ContentType,
			&f.Owner,
			&f.StoragePath,
			&f.Size,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListSharedWith returns files readable through grants. Duplicate grants for
// the same file collapse into one row; the earliest granter is reported.
func (r *FilePostgres) ListSharedWith(ctx context.Context, account string) ([]model.SharedFile, error) {
	const q = `
		SELECT f.id, f.filename, f.content_type, min(g.shared_by), f.created_at
		FROM access_grants g
		JOIN stored_files f ON f.id = g.file_id
		WHERE g.shared_with = $1
		GROUP BY f.id, f.filename, f.content_type, f.created_at
		ORDER BY f.created_at DESC, f.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SharedFile, 0)
	for rows.Next() {
		var f model.SharedFile
		if err := rows.Scan(
			&f.ID,
			&f.Filename,
			&f.ContentType,
			&f.SharedBy,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

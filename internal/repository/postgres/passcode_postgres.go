package postgres

import (
	"context"
	"database/sql"

	"vaultapi/internal/model"
	"vaultapi/internal/repository"
)

// PasscodePostgres is a PostgreSQL implementation of repository.PasscodeRepository.
type PasscodePostgres struct {
	db *sql.DB
}

// NewPasscodePostgres creates a new PasscodePostgres repository.
func NewPasscodePostgres(db *sql.DB) *PasscodePostgres {
	return &PasscodePostgres{db: db}
}

var _ repository.PasscodeRepository = (*PasscodePostgres)(nil)

// Create inserts a new passcode row and returns the stored record.
func (r *PasscodePostgres) Create(ctx context.Context, p *model.Passcode) (*model.Passcode, error) {
	const q = `
		INSERT INTO passcodes (id, username, code, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, username, code, expires_at, used, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Username,
		p.Code,
		p.ExpiresAt,
		p.Used,
		p.CreatedAt,
	)
	var out model.Passcode
	if err := row.Scan(
		&out.ID,
		&out.Username,
		&out.Code,
		&out.ExpiresAt,
		&out.Used,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindUnused fetches the most recent unused passcode for the username.
func (r *PasscodePostgres) FindUnused(ctx context.Context, username string) (*model.Passcode, error) {
	const q = `
		SELECT id, username, code, expires_at, used, created_at
		FROM passcodes
		WHERE username = $1 AND NOT used
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, q, username)
	var p model.Passcode
	if err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Code,
		&p.ExpiresAt,
		&p.Used,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkUsed performs the conditional unused-to-used transition. The WHERE
// clause on the used flag makes concurrent verifies race-free: exactly one
// caller observes an affected row.
func (r *PasscodePostgres) MarkUsed(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE passcodes SET used = TRUE WHERE id = $1 AND NOT used`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RetireUnused supersedes all unused passcodes for the username.
func (r *PasscodePostgres) RetireUnused(ctx context.Context, username string) (int64, error) {
	const q = `UPDATE passcodes SET used = TRUE WHERE username = $1 AND NOT used`
	res, err := r.db.ExecContext(ctx, q, username)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

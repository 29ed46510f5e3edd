package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"vaultapi/internal/model"
)

var userColumns = []string{"id", "username", "email", "password_hash", "enabled", "created_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "user-uuid",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		Enabled:      false,
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(userColumns).
		AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.Enabled, u.CreatedAt)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash, u.Enabled, u.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.False(t, result.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userColumns).
			AddRow("user-uuid", "alice", "alice@example.com", "$2a$10$hash", true, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = ?").
			WithArgs("alice").
			WillReturnRows(rows)

		u, err := repo.FindByUsername(ctx, "alice")

		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = ?").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByUsername(ctx, "ghost")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, u)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(userColumns).
		AddRow("user-uuid", "alice", "alice@example.com", "$2a$10$hash", true, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	u, err := repo.FindByEmail(ctx, "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestUserPostgres_SetEnabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE users SET enabled = TRUE WHERE username = ?").
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetEnabled(ctx, "alice")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

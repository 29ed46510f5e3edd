package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"vaultapi/internal/model"
)

func TestGrantPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewGrantPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	g := &model.AccessGrant{
		ID:         "grant-uuid",
		FileID:     "file-uuid",
		SharedBy:   "alice",
		SharedWith: "bob",
		CreatedAt:  now,
	}

	rows := sqlmock.NewRows([]string{"id", "file_id", "shared_by", "shared_with", "created_at"}).
		AddRow(g.ID, g.FileID, g.SharedBy, g.SharedWith, g.CreatedAt)

	mock.ExpectQuery("INSERT INTO access_grants").
		WithArgs(g.ID, g.FileID, g.SharedBy, g.SharedWith, g.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, g)

	assert.NoError(t, err)
	assert.Equal(t, "bob", result.SharedWith)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantPostgres_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewGrantPostgres(db)
	ctx := context.Background()

	t.Run("grant present", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("file-uuid", "bob").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.Exists(ctx, "file-uuid", "bob")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no grant", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("file-uuid", "mallory").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := repo.Exists(ctx, "file-uuid", "mallory")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

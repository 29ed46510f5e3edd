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

var fileColumns = []string{"id", "filename", "content_type", "owner", "storage_path", "size", "created_at"}

func TestFilePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	f := &model.StoredFile{
		ID:          "file-uuid",
		Filename:    "hello.txt",
		ContentType: "text/plain",
		Owner:       "alice",
		StoragePath: "files/file-uuid",
		Size:        37,
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(fileColumns).
		AddRow(f.ID, f.Filename, f.ContentType, f.Owner, f.StoragePath, f.Size, f.CreatedAt)

	mock.ExpectQuery("INSERT INTO stored_files").
		WithArgs(f.ID, f.Filename, f.ContentType, f.Owner, f.StoragePath, f.Size, f.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, f)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, f.ID, result.ID)
	assert.Equal(t, f.Owner, result.Owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(fileColumns).
			AddRow("file-id", "hello.txt", "text/plain", "alice", "files/file-id", 37, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM stored_files WHERE id = ?").
			WithArgs("file-id").
			WillReturnRows(rows)

		f, err := repo.FindByID(ctx, "file-id")

		assert.NoError(t, err)
		assert.NotNil(t, f)
		assert.Equal(t, "alice", f.Owner)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM stored_files WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		f, err := repo.FindByID(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, f)
	})
}

func TestFilePostgres_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(fileColumns).
			AddRow("id-2", "b.txt", "text/plain", "alice", "files/id-2", 2, time.Now()).
			AddRow("id-1", "a.txt", "text/plain", "alice", "files/id-1", 1, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM stored_files WHERE owner = (.+) ORDER BY").
			WithArgs("alice").
			WillReturnRows(rows)

		items, err := repo.ListByOwner(ctx, "alice")

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "id-2", items[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM stored_files WHERE owner = (.+) ORDER BY").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(fileColumns))

		items, err := repo.ListByOwner(ctx, "nobody")

		assert.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})
}

func TestFilePostgres_ListSharedWith(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "filename", "content_type", "shared_by", "created_at"}).
		AddRow("file-id", "hello.txt", "text/plain", "alice", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM access_grants g").
		WithArgs("bob").
		WillReturnRows(rows)

	items, err := repo.ListSharedWith(ctx, "bob")

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "alice", items[0].SharedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

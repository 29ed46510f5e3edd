package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"vaultapi/internal/common"
	"vaultapi/internal/crypto"
	"vaultapi/internal/model"
	"vaultapi/internal/repository"
	"vaultapi/internal/storage"
)

// FileContent is the decrypted result of a download, paired with the declared
// metadata the caller needs to construct a response.
type FileContent struct {
	Data        []byte
	Filename    string
	ContentType string
}

// FileService orchestrates the encrypted blob store: upload protects and
// persists, download authorizes, fetches and unprotects. Plaintext is never
// persisted or cached; decryption happens fresh on every download.
type FileService interface {
	// Upload encrypts data and persists the envelope plus a metadata record.
	// The returned record never carries plaintext or ciphertext.
	Upload(ctx context.Context, data []byte, filename, contentType, owner string) (*model.StoredFile, error)

	// Download returns the decrypted content for account, which must be the
	// owner or hold an access grant.
	Download(ctx context.Context, fileID, account string) (*FileContent, error)

	// ListOwnedBy returns metadata for the account's own files.
	ListOwnedBy(ctx context.Context, account string) ([]model.StoredFile, error)

	// ListSharedWith returns metadata for files shared with the account.
	ListSharedWith(ctx context.Context, account string) ([]model.SharedFile, error)
}

type fileService struct {
	cipher *crypto.Cipher
	store  storage.Storage
	repo   repository.FileRepository
	authz  Authorizer
}

// NewFileService constructs a new FileService.
func NewFileService(cipher *crypto.Cipher, store storage.Storage, repo repository.FileRepository, authz Authorizer) FileService {
	return &fileService{cipher: cipher, store: store, repo: repo, authz: authz}
}

func (s *fileService) Upload(ctx context.Context, data []byte, filename, contentType, owner string) (*model.StoredFile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file content is empty", common.ErrInvalidInput)
	}
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", common.ErrInvalidInput)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	envelope, err := s.cipher.Protect(data)
	if err != nil {
		return nil, fmt.Errorf("protect content: %w", err)
	}

	id := uuid.New().String()
	key := path.Join("files", id)

	// Only the envelope leaves the process; the object store never sees
	// plaintext or the declared content type.
	_, err = s.store.Put(ctx, key, bytes.NewReader(envelope), storage.PutObjectOptions{
		Size:        int64(len(envelope)),
		ContentType: "application/octet-stream",
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store envelope: %w", err)
	}

	f := &model.StoredFile{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Owner:       owner,
		StoragePath: key,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, f)
	if err != nil {
		// Rollback: delete the envelope from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *fileService) Download(ctx context.Context, fileID, account string) (*FileContent, error) {
	if fileID == "" {
		return nil, fmt.Errorf("%w: file id is required", common.ErrInvalidInput)
	}

	f, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("find file: %w", err)
	}

	ok, err := s.authz.IsAuthorized(ctx, fileID, account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no access to file %s", common.ErrForbidden, fileID)
	}

	obj, _, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch envelope: %w", err)
	}
	defer obj.Close()

	envelope, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}

	// A rejection here signals at-rest corruption or a key mismatch;
	// it surfaces as ErrDecryptionFailure, untranslated.
	data, err := s.cipher.Unprotect(envelope)
	if err != nil {
		return nil, err
	}

	return &FileContent{
		Data:        data,
		Filename:    f.Filename,
		ContentType: f.ContentType,
	}, nil
}

// ListOwnedBy is a metadata projection; it never touches the cipher.
func (s *fileService) ListOwnedBy(ctx context.Context, account string) ([]model.StoredFile, error) {
	return s.repo.ListByOwner(ctx, account)
}

// ListSharedWith is a metadata projection over files plus grants.
func (s *fileService) ListSharedWith(ctx context.Context, account string) ([]model.SharedFile, error) {
	return s.repo.ListSharedWith(ctx, account)
}

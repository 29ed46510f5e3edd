package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vaultapi/internal/common"
	"vaultapi/internal/model"
	"vaultapi/internal/repository"
)

// Authorizer answers "may account X read file Y". The file service consults
// it on every download; decisions are never cached.
type Authorizer interface {
	IsAuthorized(ctx context.Context, fileID, account string) (bool, error)
}

// GrantService records and answers read permissions on stored files.
type GrantService interface {
	Authorizer

	// Share grants grantee read access to the file. Only the file's owner may
	// share it. Repeated shares for the same pair append duplicate rows; the
	// effective permission is unchanged.
	Share(ctx context.Context, fileID, granter, grantee string) (*model.AccessGrant, error)
}

type grantService struct {
	files  repository.FileRepository
	grants repository.GrantRepository
}

// NewGrantService constructs a new GrantService.
func NewGrantService(files repository.FileRepository, grants repository.GrantRepository) GrantService {
	return &grantService{files: files, grants: grants}
}

func (s *grantService) Share(ctx context.Context, fileID, granter, grantee string) (*model.AccessGrant, error) {
	if fileID == "" || granter == "" || grantee == "" {
		return nil, fmt.Errorf("%w: file id, granter and grantee are required", common.ErrInvalidInput)
	}

	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("find file: %w", err)
	}
	if f.Owner != granter {
		return nil, fmt.Errorf("%w: only the owner can share a file", common.ErrForbidden)
	}

	grant := &model.AccessGrant{
		ID:         uuid.New().String(),
		FileID:     fileID,
		SharedBy:   granter,
		SharedWith: grantee,
		CreatedAt:  time.Now().UTC(),
	}
	stored, err := s.grants.Create(ctx, grant)
	if err != nil {
		return nil, fmt.Errorf("create grant: %w", err)
	}
	return stored, nil
}

// IsAuthorized is evaluated fresh per call: the owner always passes, anyone
// else needs at least one grant row. Once granted, access persists for the
// life of the file; there is no revocation.
func (s *grantService) IsAuthorized(ctx context.Context, fileID, account string) (bool, error) {
	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%w: file %s", common.ErrNotFound, fileID)
		}
		return false, fmt.Errorf("find file: %w", err)
	}
	if f.Owner == account {
		return true, nil
	}
	ok, err := s.grants.Exists(ctx, fileID, account)
	if err != nil {
		return false, fmt.Errorf("check grants: %w", err)
	}
	return ok, nil
}

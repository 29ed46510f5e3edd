package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vaultapi/internal/model"
)

type MockGrantService struct {
	mock.Mock
}

func (m *MockGrantService) Share(ctx context.Context, fileID, granter, grantee string) (*model.AccessGrant, error) {
	args := m.Called(ctx, fileID, granter, grantee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessGrant), args.Error(1)
}

func (m *MockGrantService) IsAuthorized(ctx context.Context, fileID, account string) (bool, error) {
	args := m.Called(ctx, fileID, account)
	return args.Bool(0), args.Error(1)
}

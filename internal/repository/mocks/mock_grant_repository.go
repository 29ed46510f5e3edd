package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vaultapi/internal/model"
)

type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) Create(ctx context.Context, g *model.AccessGrant) (*model.AccessGrant, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessGrant), args.Error(1)
}

func (m *MockGrantRepository) Exists(ctx context.Context, fileID, account string) (bool, error) {
	args := m.Called(ctx, fileID, account)
	return args.Bool(0), args.Error(1)
}

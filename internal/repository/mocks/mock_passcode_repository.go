package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vaultapi/internal/model"
)

type MockPasscodeRepository struct {
	mock.Mock
}

func (m *MockPasscodeRepository) Create(ctx context.Context, p *model.Passcode) (*model.Passcode, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Passcode), args.Error(1)
}

func (m *MockPasscodeRepository) FindUnused(ctx context.Context, username string) (*model.Passcode, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Passcode), args.Error(1)
}

func (m *MockPasscodeRepository) MarkUsed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPasscodeRepository) RetireUnused(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockOtpService struct {
	mock.Mock
}

func (m *MockOtpService) Issue(ctx context.Context, username, deliveryAddress string) error {
	args := m.Called(ctx, username, deliveryAddress)
	return args.Error(0)
}

func (m *MockOtpService) Verify(ctx context.Context, username, code string) (bool, error) {
	args := m.Called(ctx, username, code)
	return args.Bool(0), args.Error(1)
}

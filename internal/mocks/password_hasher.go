package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// PasswordHasher is a mock implementation of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(ctx context.Context, plaintext, digest string) bool {
	args := m.Called(ctx, plaintext, digest)
	return args.Bool(0)
}

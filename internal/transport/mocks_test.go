package transport_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgsolar/luxclient/internal/domain"
)

// MockKeystore mocks the keystore.Store interface for failure paths
// the real backends cannot produce on demand.
type MockKeystore struct {
	mock.Mock
}

func (m *MockKeystore) Save(ctx context.Context, token domain.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockKeystore) Load(ctx context.Context) (*domain.AuthToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *MockKeystore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

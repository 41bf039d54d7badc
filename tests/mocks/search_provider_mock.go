package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/localpulse/localpulse/internal/domain/providers"
)

// MockSearchProvider is a testify mock of providers.SearchProvider
type MockSearchProvider struct {
	mock.Mock
}

var _ providers.SearchProvider = (*MockSearchProvider)(nil)

func (m *MockSearchProvider) Name() string {
	return "mock"
}

func (m *MockSearchProvider) Search(ctx context.Context, input providers.SearchInput) (*providers.SearchOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.SearchOutput), args.Error(1)
}

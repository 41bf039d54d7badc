package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

// MockLocationSource is a testify mock of providers.LocationSource
type MockLocationSource struct {
	mock.Mock
}

var _ providers.LocationSource = (*MockLocationSource)(nil)

func (m *MockLocationSource) CurrentPosition(ctx context.Context) (*entities.Coordinates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Coordinates), args.Error(1)
}

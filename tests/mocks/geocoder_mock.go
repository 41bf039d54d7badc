package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

// MockGeocoder is a testify mock of providers.Geocoder
type MockGeocoder struct {
	mock.Mock
}

var _ providers.Geocoder = (*MockGeocoder)(nil)

func (m *MockGeocoder) Geocode(ctx context.Context, location string) (*entities.Coordinates, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Coordinates), args.Error(1)
}

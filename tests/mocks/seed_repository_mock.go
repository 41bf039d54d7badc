package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/repositories"
)

// MockSeedRepository is a testify mock of repositories.SeedRepository
type MockSeedRepository struct {
	mock.Mock
}

var _ repositories.SeedRepository = (*MockSeedRepository)(nil)

func (m *MockSeedRepository) Cities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSeedRepository) ListByCity(ctx context.Context, city string) ([]entities.RawResult, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawResult), args.Error(1)
}

func (m *MockSeedRepository) All(ctx context.Context) ([]entities.RawResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawResult), args.Error(1)
}

package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/adapters/cache"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

type MockSearchProvider struct {
	mock.Mock
}

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

func TestCachedProvider_ServesRepeatRequestsFromCache(t *testing.T) {
	next := new(MockSearchProvider)
	input := providers.SearchInput{Keywords: "jazz night"}
	output := &providers.SearchOutput{Results: []entities.RawResult{
		{Type: entities.ResultTypeEvent, Name: "Blue Note", Description: "Live jazz", Location: "Downtown"},
	}}
	next.On("Search", mock.Anything, input).Return(output, nil).Once()

	p := NewCachedProvider(next, cache.NewMemoryAdapter(), 60, nil)
	ctx := context.Background()

	first, err := p.Search(ctx, input)
	require.NoError(t, err)
	second, err := p.Search(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, output, first)
	assert.Equal(t, output, second)
	next.AssertExpectations(t)
}

func TestCachedProvider_LocationIsPartOfTheKey(t *testing.T) {
	next := new(MockSearchProvider)
	empty := &providers.SearchOutput{Results: []entities.RawResult{}}
	next.On("Search", mock.Anything, mock.Anything).Return(empty, nil).Twice()

	p := NewCachedProvider(next, cache.NewMemoryAdapter(), 60, nil)
	ctx := context.Background()

	_, err := p.Search(ctx, providers.SearchInput{Keywords: "jazz"})
	require.NoError(t, err)
	_, err = p.Search(ctx, providers.SearchInput{Keywords: "jazz", UserLocation: "12.97,77.59"})
	require.NoError(t, err)

	next.AssertNumberOfCalls(t, "Search", 2)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	next := new(MockSearchProvider)
	input := providers.SearchInput{Keywords: "jazz"}
	next.On("Search", mock.Anything, input).Return(nil, errors.New("upstream down")).Twice()

	p := NewCachedProvider(next, cache.NewMemoryAdapter(), 60, nil)

	_, err := p.Search(context.Background(), input)
	assert.Error(t, err)
	_, err = p.Search(context.Background(), input)
	assert.Error(t, err)
	next.AssertExpectations(t)
}

package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/adapters/providers/geolocation"
	"github.com/localpulse/localpulse/internal/application/services"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/tests/mocks"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

func TestValidateKeywords(t *testing.T) {
	for _, kw := range []string{"", "ab", "日本"} {
		err := services.ValidateKeywords(kw)
		appErr, ok := apperrors.As(err)
		require.True(t, ok, kw)
		assert.Equal(t, "keywords", appErr.Field)
		assert.Equal(t, services.KeywordsTooShortError, appErr.Message)
	}
	assert.NoError(t, services.ValidateKeywords("abc"))
	assert.NoError(t, services.ValidateKeywords("東京都"))
}

func TestBuildSearchInput(t *testing.T) {
	t.Run("unknown location is omitted from the payload", func(t *testing.T) {
		input := services.BuildSearchInput("coffee shops", entities.UserLocation{Status: entities.LocationPending})
		payload, err := json.Marshal(input)
		require.NoError(t, err)
		assert.JSONEq(t, `{"keywords":"coffee shops"}`, string(payload))
	})

	t.Run("denied location is omitted", func(t *testing.T) {
		input := services.BuildSearchInput("coffee shops", entities.UserLocation{Status: entities.LocationDenied})
		assert.Empty(t, input.UserLocation)
	})

	t.Run("known location is sent as lat,lng", func(t *testing.T) {
		input := services.BuildSearchInput("coffee shops", entities.UserLocation{
			Status:      entities.LocationAvailable,
			Coordinates: &entities.Coordinates{Lat: 28.6139, Lng: 77.209},
		})
		payload, err := json.Marshal(input)
		require.NoError(t, err)
		assert.JSONEq(t, `{"keywords":"coffee shops","userLocation":"28.6139,77.209"}`, string(payload))
	})
}

func TestSearchDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	pending := entities.UserLocation{Status: entities.LocationPending}
	normalizer := services.NewResultNormalizer(geolocation.NewHashGeocoder(geolocation.DefaultBase), 4)

	t.Run("normalizes provider results", func(t *testing.T) {
		provider := new(mocks.MockSearchProvider)
		provider.On("Search", mock.Anything, providers.SearchInput{Keywords: "jazz"}).
			Return(results(event("Jazz Night", "Blue Whale")), nil)

		items, err := services.NewSearchDispatcher(provider, normalizer).Dispatch(ctx, "jazz", pending)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Jazz Night-0", items[0].ID)
		assert.NotZero(t, items[0].Lat)
	})

	t.Run("provider failure is generic", func(t *testing.T) {
		provider := new(mocks.MockSearchProvider)
		provider.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := services.NewSearchDispatcher(provider, normalizer).Dispatch(ctx, "jazz", pending)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
		assert.Equal(t, services.SearchFailedMessage, appErr.Message)
		provider.AssertNumberOfCalls(t, "Search", 1)
	})

	t.Run("schema violation is a failure, never partial data", func(t *testing.T) {
		provider := new(mocks.MockSearchProvider)
		provider.On("Search", mock.Anything, mock.Anything).
			Return(results(event("Fine", "Here"), entities.RawResult{Type: "party", Name: "Bad", Location: "There"}), nil)

		items, err := services.NewSearchDispatcher(provider, normalizer).Dispatch(ctx, "jazz", pending)
		assert.Nil(t, items)
		assert.ErrorIs(t, err, providers.ErrSearchSchema)
	})

	t.Run("empty output is an empty result set", func(t *testing.T) {
		provider := new(mocks.MockSearchProvider)
		provider.On("Search", mock.Anything, mock.Anything).Return(&providers.SearchOutput{}, nil)

		items, err := services.NewSearchDispatcher(provider, normalizer).Dispatch(ctx, "jazz", pending)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("short keywords are rejected before dispatch", func(t *testing.T) {
		provider := new(mocks.MockSearchProvider)
		_, err := services.NewSearchDispatcher(provider, normalizer).Dispatch(ctx, "ab", pending)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		provider.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})
}

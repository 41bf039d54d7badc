//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/adapters/search"
	"github.com/localpulse/localpulse/internal/adapters/seed"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

func TestTypesenseAdapterIntegration(t *testing.T) {
	if os.Getenv("TEST_TYPESENSE_URL") == "" {
		t.Skip("Skipping integration test: TEST_TYPESENSE_URL not set")
	}

	ctx := context.Background()
	adapter := search.NewTypesenseAdapter(newTestTypesenseClient(t))
	require.NoError(t, adapter.Reset(ctx))

	places, err := seed.NewStaticRepository().All(ctx)
	require.NoError(t, err)

	indexed, err := adapter.IndexPlaces(ctx, places)
	require.NoError(t, err)
	assert.Equal(t, len(places), indexed)

	t.Run("keyword search", func(t *testing.T) {
		out, err := adapter.Search(ctx, providers.SearchInput{Keywords: "festival"})
		require.NoError(t, err)
		require.NotEmpty(t, out.Results)
		for _, result := range out.Results {
			assert.True(t, result.Type.Valid())
		}
	})

	t.Run("user location orders by distance", func(t *testing.T) {
		delhi := entities.Coordinates{Lat: 28.6139, Lng: 77.209}
		out, err := adapter.Search(ctx, providers.SearchInput{Keywords: "market", UserLocation: delhi.String()})
		require.NoError(t, err)
		require.NotEmpty(t, out.Results)
		assert.Equal(t, "Delhi", out.Results[0].City)
	})

	t.Run("no match", func(t *testing.T) {
		out, err := adapter.Search(ctx, providers.SearchInput{Keywords: "zzzxqv"})
		require.NoError(t, err)
		assert.Empty(t, out.Results)
	})
}

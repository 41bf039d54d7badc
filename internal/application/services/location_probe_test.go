package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/adapters/providers/geolocation"
	"github.com/localpulse/localpulse/internal/application/services"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/tests/mocks"
)

func waitResolved(t *testing.T, probe *services.LocationProbe) {
	t.Helper()
	select {
	case <-probe.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("location probe did not resolve")
	}
}

func TestLocationProbe(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		source := new(mocks.MockLocationSource)
		source.On("CurrentPosition", mock.Anything).Return(&entities.Coordinates{Lat: 19.076, Lng: 72.8777}, nil).Once()

		probe := services.NewLocationProbe(source)
		var resolved []entities.UserLocation
		probe.OnResolve(func(l entities.UserLocation) { resolved = append(resolved, l) })

		assert.Equal(t, entities.LocationPending, probe.State().Status)
		probe.Start(context.Background())
		probe.Start(context.Background())
		waitResolved(t, probe)

		state := probe.State()
		assert.Equal(t, entities.LocationAvailable, state.Status)
		require.True(t, state.Known())
		assert.Equal(t, 19.076, state.Coordinates.Lat)
		assert.Equal(t, []entities.UserLocation{state}, resolved)
		source.AssertExpectations(t)
	})

	t.Run("denied", func(t *testing.T) {
		source := new(mocks.MockLocationSource)
		source.On("CurrentPosition", mock.Anything).Return(nil, providers.ErrLocationDenied)

		probe := services.NewLocationProbe(source)
		probe.Start(context.Background())
		waitResolved(t, probe)

		assert.Equal(t, entities.LocationDenied, probe.State().Status)
		assert.False(t, probe.State().Known())
	})

	t.Run("abandoned request stays pending", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		probe := services.NewLocationProbe(geolocation.NewReportedLocationSource())
		probe.Start(ctx)
		cancel()

		select {
		case <-probe.Done():
			t.Fatal("probe resolved without an answer")
		case <-time.After(50 * time.Millisecond):
		}
		assert.Equal(t, entities.LocationPending, probe.State().Status)
	})
}

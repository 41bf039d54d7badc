package geolocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

func TestReportedLocationSource_FirstAnswerWins(t *testing.T) {
	src := NewReportedLocationSource()

	assert.True(t, src.Report(entities.Coordinates{Lat: 12.97, Lng: 77.59}))
	assert.False(t, src.Deny("too late"))
	assert.False(t, src.Report(entities.Coordinates{Lat: 1, Lng: 1}))

	got, err := src.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &entities.Coordinates{Lat: 12.97, Lng: 77.59}, got)
}

func TestReportedLocationSource_Deny(t *testing.T) {
	src := NewReportedLocationSource()
	require.True(t, src.Deny("User denied Geolocation"))

	got, err := src.CurrentPosition(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, providers.ErrLocationDenied)
}

func TestReportedLocationSource_InvalidCoordinatesCountAsUnavailable(t *testing.T) {
	src := NewReportedLocationSource()
	require.True(t, src.Report(entities.Coordinates{Lat: 120, Lng: 0}))

	_, err := src.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, providers.ErrLocationUnavailable)
}

func TestReportedLocationSource_BlocksUntilContextDone(t *testing.T) {
	src := NewReportedLocationSource()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := src.CurrentPosition(ctx)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

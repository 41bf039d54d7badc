package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/adapters/basemap"
	"github.com/localpulse/localpulse/internal/adapters/events"
	"github.com/localpulse/localpulse/internal/adapters/providers/geolocation"
	"github.com/localpulse/localpulse/internal/adapters/seed"
	"github.com/localpulse/localpulse/internal/application/services"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/render"
	"github.com/localpulse/localpulse/tests/mocks"
)

var defaultCenter = entities.Coordinates{Lat: 20.5937, Lng: 78.9629}

func testRendererConfig() services.MapRendererConfig {
	return services.MapRendererConfig{
		DefaultCenter:   defaultCenter,
		DefaultZoom:     5,
		UserZoom:        12,
		ResultMinZoom:   6,
		MaxZoom:         15,
		ViewportWidth:   640,
		ViewportHeight:  360,
		BoundsPadding:   0.5,
		Clustering:      true,
		ClusterRadiusPx: 60,
	}
}

func newSketcher(t *testing.T) *render.Sketcher {
	t.Helper()
	sketcher, err := render.NewSketcher()
	require.NoError(t, err)
	return sketcher
}

func newLeaflet(t *testing.T) providers.MapBackend {
	return basemap.NewLeafletBackend("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", "OpenStreetMap contributors", newSketcher(t))
}

type fixture struct {
	svc      *services.SessionService
	provider *mocks.MockSearchProvider
	bus      *events.MemoryEventBus
}

func newFixture(t *testing.T, backend providers.MapBackend, cfg services.SessionServiceConfig) *fixture {
	t.Helper()
	if backend == nil {
		backend = newLeaflet(t)
	}

	provider := new(mocks.MockSearchProvider)
	bus := events.NewMemoryEventBus()
	normalizer := services.NewResultNormalizer(geolocation.NewHashGeocoder(geolocation.DefaultBase), 4)
	renderer := services.NewMapRenderer(backend, newSketcher(t), testRendererConfig())

	svc := services.NewSessionService(
		services.NewSearchDispatcher(provider, normalizer),
		normalizer,
		seed.NewStaticRepository(),
		renderer,
		services.NewResultsList("en"),
		bus,
		func() providers.ReportableLocationSource { return geolocation.NewReportedLocationSource() },
		cfg,
	)
	t.Cleanup(func() {
		svc.Close()
		_ = bus.Close()
	})
	return &fixture{svc: svc, provider: provider, bus: bus}
}

func results(raw ...entities.RawResult) *providers.SearchOutput {
	return &providers.SearchOutput{Results: raw}
}

func event(name, location string) entities.RawResult {
	return entities.RawResult{Type: entities.ResultTypeEvent, Name: name, Description: name + " description", Location: location}
}

func business(name, location string) entities.RawResult {
	return entities.RawResult{Type: entities.ResultTypeBusiness, Name: name, Description: name + " description", Location: location}
}

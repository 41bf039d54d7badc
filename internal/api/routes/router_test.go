package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/adapters/basemap"
	"github.com/localpulse/localpulse/internal/adapters/cache"
	"github.com/localpulse/localpulse/internal/adapters/events"
	"github.com/localpulse/localpulse/internal/adapters/providers/geolocation"
	"github.com/localpulse/localpulse/internal/adapters/search"
	"github.com/localpulse/localpulse/internal/adapters/seed"
	"github.com/localpulse/localpulse/internal/api/middleware"
	"github.com/localpulse/localpulse/internal/api/routes"
	"github.com/localpulse/localpulse/internal/application/services"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/render"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sketcher, err := render.NewSketcher()
	require.NoError(t, err)

	seeds := seed.NewStaticRepository()
	normalizer := services.NewResultNormalizer(geolocation.NewHashGeocoder(entities.Coordinates{Lat: 34.0522, Lng: -118.2437}), 4)
	renderer := services.NewMapRenderer(basemap.NewLeafletBackend("https://tiles.example/{z}/{x}/{y}.png", "test", sketcher), sketcher, services.MapRendererConfig{
		DefaultCenter:   entities.Coordinates{Lat: 20.5937, Lng: 78.9629},
		DefaultZoom:     5,
		UserZoom:        12,
		ResultMinZoom:   6,
		MaxZoom:         15,
		ViewportWidth:   640,
		ViewportHeight:  360,
		BoundsPadding:   0.5,
		Clustering:      true,
		ClusterRadiusPx: 60,
	})
	bus := events.NewMemoryEventBus()
	svc := services.NewSessionService(
		services.NewSearchDispatcher(search.NewSeedProvider(seeds), normalizer),
		normalizer,
		seeds,
		renderer,
		services.NewResultsList("en"),
		bus,
		func() providers.ReportableLocationSource { return geolocation.NewReportedLocationSource() },
		services.SessionServiceConfig{TTL: time.Hour},
	)

	router := routes.NewRouterForService(svc, middleware.NewCacheMiddleware(cache.NewMemoryAdapter()), nil)
	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(func() {
		server.Close()
		svc.Close()
		_ = bus.Close()
	})
	return server
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouter_Health(t *testing.T) {
	server := newTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PageViewFlow(t *testing.T) {
	server := newTestServer(t)

	resp := do(t, http.MethodPost, server.URL+"/api/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created services.PageState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.SessionID)
	assert.True(t, created.Welcome.Visible)
	assert.Empty(t, created.Results)

	base := server.URL + "/api/sessions/" + created.SessionID

	resp = do(t, http.MethodPost, base+"/search", `{"keywords":"ab"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/search", `{"keywords":"festival"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var searched services.PageState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&searched))
	require.NotEmpty(t, searched.Results)
	assert.Equal(t, searched.Results[0].Name+"-0", searched.Results[0].ID)
	assert.False(t, searched.Welcome.Visible)

	resp = do(t, http.MethodPut, base+"/hover", `{"id":"`+searched.Results[0].ID+`","source":"list"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/list?type=event", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list entities.ListView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	for _, row := range list.Rows {
		assert.Equal(t, entities.ResultTypeEvent, row.Type)
	}

	resp = do(t, http.MethodGet, base+"/map.png?width=200&height=120", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = do(t, http.MethodGet, server.URL+"/api/sessions/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_CitiesAreCached(t *testing.T) {
	server := newTestServer(t)

	first := do(t, http.MethodGet, server.URL+"/api/cities", "")
	second := do(t, http.MethodGet, server.URL+"/api/cities", "")

	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "MISS", first.Header.Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))

	var body map[string][]string
	require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
	assert.Equal(t, []string{"All", "Delhi", "Mumbai", "Bangalore", "Chennai"}, body["cities"])
}

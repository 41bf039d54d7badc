package basemap

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/adapters/cache"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/render"
)

func TestLeafletBackend(t *testing.T) {
	sketcher, err := render.NewSketcher()
	require.NoError(t, err)
	b := NewLeafletBackend("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", "OpenStreetMap contributors", sketcher)

	assert.True(t, b.SupportsClustering())
	surface, err := b.NewSurface()
	require.NoError(t, err)
	assert.Equal(t, "OpenStreetMap contributors", surface.Scene().Basemap.Attribution)

	data, contentType, err := b.StaticImage(context.Background(), surface.Scene(), 200, 100)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)

	_, err = NewLeafletBackend("", "", sketcher).NewSurface()
	assert.ErrorIs(t, err, providers.ErrMapNotConfigured)
}

func TestGoogleBackend_MissingKey(t *testing.T) {
	b := NewGoogleBackend("  ", "", nil, 60)

	assert.False(t, b.SupportsClustering())
	_, err := b.NewSurface()
	assert.ErrorIs(t, err, providers.ErrMapNotConfigured)

	_, _, err = b.StaticImage(context.Background(), entities.MapScene{}, 100, 100)
	assert.ErrorIs(t, err, providers.ErrMapNotConfigured)
}

func TestGoogleBackend_StaticImageProxiesAndCaches(t *testing.T) {
	var calls int32
	var lastQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		lastQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	b := NewGoogleBackendWithOptions("secret", "map-1", cache.NewMemoryAdapter(), 60, server.URL, server.Client())
	scene := entities.MapScene{
		Center: entities.Coordinates{Lat: 18.95, Lng: 72.83},
		Zoom:   12,
		Markers: []entities.Marker{
			{ID: "a-0", Position: entities.Coordinates{Lat: 18.9, Lng: 72.8}, Style: entities.MarkerPrimary},
			{ID: "b-1", Position: entities.Coordinates{Lat: 19, Lng: 72.9}, Style: entities.MarkerAccent},
		},
	}

	ctx := context.Background()
	data, contentType, err := b.StaticImage(ctx, scene, 1024, 300)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", contentType)
	assert.Contains(t, lastQuery, "key=secret")
	assert.Contains(t, lastQuery, "size=640x300")
	assert.True(t, strings.Contains(lastQuery, "0xFF9800%7C19%2C72.9"), lastQuery)

	_, _, err = b.StaticImage(ctx, scene, 1024, 300)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGoogleBackend_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	b := NewGoogleBackendWithOptions("secret", "", nil, 60, server.URL, server.Client())
	_, _, err := b.StaticImage(context.Background(), entities.MapScene{}, 100, 100)
	assert.ErrorContains(t, err, "status 403")
}

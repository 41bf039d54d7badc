package basemap

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

const (
	BackendGoogle = "google"

	staticMapURL    = "https://maps.googleapis.com/maps/api/staticmap"
	maxStaticMapDim = 640
	// Keep the URL under the Static Maps length limit.
	maxStaticMarkers = 100
)

// GoogleBackend uses the hosted Google Maps service and proxies Static Maps images
type GoogleBackend struct {
	apiKey   string
	mapID    string
	cache    providers.CacheProvider
	cacheTTL int
	client   *http.Client
	baseURL  string
}

var _ providers.MapBackend = (*GoogleBackend)(nil)

// NewGoogleBackend creates the hosted backend; cache may be nil
func NewGoogleBackend(apiKey, mapID string, cache providers.CacheProvider, cacheTTLSeconds int) *GoogleBackend {
	return NewGoogleBackendWithOptions(apiKey, mapID, cache, cacheTTLSeconds, staticMapURL, nil)
}

// NewGoogleBackendWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleBackendWithOptions(apiKey, mapID string, cache providers.CacheProvider, cacheTTLSeconds int, baseURL string, client *http.Client) *GoogleBackend {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = staticMapURL
	}
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &GoogleBackend{
		apiKey:   strings.TrimSpace(apiKey),
		mapID:    mapID,
		cache:    cache,
		cacheTTL: cacheTTLSeconds,
		client:   client,
		baseURL:  baseURL,
	}
}

func (b *GoogleBackend) Name() string {
	return BackendGoogle
}

// SupportsClustering is false: the hosted map draws every marker individually.
func (b *GoogleBackend) SupportsClustering() bool {
	return false
}

func (b *GoogleBackend) Basemap() entities.Basemap {
	return entities.Basemap{
		Backend: BackendGoogle,
		APIKey:  b.apiKey,
		MapID:   b.mapID,
	}
}

func (b *GoogleBackend) NewSurface() (providers.MapSurface, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("%w: MAP_API_KEY is required for the google backend", providers.ErrMapNotConfigured)
	}
	return NewSurface(b.Basemap()), nil
}

// StaticImage fetches the scene from Google Static Maps, serving repeats from cache
func (b *GoogleBackend) StaticImage(ctx context.Context, scene entities.MapScene, width, height int) ([]byte, string, error) {
	if b.apiKey == "" {
		return nil, "", fmt.Errorf("%w: MAP_API_KEY is required for the google backend", providers.ErrMapNotConfigured)
	}

	values := staticMapValues(scene, width, height)
	cacheKey := "maps:static:" + hashString(values.Encode())
	if b.cache != nil {
		if cached, err := b.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			return cached, "image/png", nil
		} else if err != nil && !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Msg("static map cache lookup failed")
		}
	}

	values.Set("key", b.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build map request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch map image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("map provider returned status %d", resp.StatusCode)
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read map image: %w", err)
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, cacheKey, imageBytes, b.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache static map")
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return imageBytes, contentType, nil
}

// staticMapValues builds every query parameter except the key.
func staticMapValues(scene entities.MapScene, width, height int) url.Values {
	values := url.Values{}
	values.Set("center", scene.Center.String())
	values.Set("zoom", strconv.Itoa(scene.Zoom))
	values.Set("size", fmt.Sprintf("%dx%d", clampDim(width), clampDim(height)))
	values.Set("scale", "1")

	var primary, accent []string
	for i, m := range scene.Markers {
		if i >= maxStaticMarkers {
			break
		}
		if m.Style == entities.MarkerAccent {
			accent = append(accent, m.Position.String())
			continue
		}
		primary = append(primary, m.Position.String())
	}
	if len(primary) > 0 {
		values.Add("markers", "color:0x3F51B5|"+strings.Join(primary, "|"))
	}
	if len(accent) > 0 {
		values.Add("markers", "color:0xFF9800|"+strings.Join(accent, "|"))
	}
	return values
}

func clampDim(v int) int {
	if v <= 0 {
		return 1
	}
	if v > maxStaticMapDim {
		return maxStaticMapDim
	}
	return v
}

func hashString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

package basemap

import (
	"context"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/render"
)

const BackendLeaflet = "leaflet"

// LeafletBackend serves OpenStreetMap-style raster tiles; clients cluster markers themselves
type LeafletBackend struct {
	tileURL     string
	attribution string
	sketcher    *render.Sketcher
}

var _ providers.MapBackend = (*LeafletBackend)(nil)

// NewLeafletBackend creates a tile backend; tile attribution is mandatory
func NewLeafletBackend(tileURL, attribution string, sketcher *render.Sketcher) *LeafletBackend {
	return &LeafletBackend{tileURL: tileURL, attribution: attribution, sketcher: sketcher}
}

func (b *LeafletBackend) Name() string {
	return BackendLeaflet
}

func (b *LeafletBackend) SupportsClustering() bool {
	return true
}

func (b *LeafletBackend) Basemap() entities.Basemap {
	return entities.Basemap{
		Backend:     BackendLeaflet,
		TileURL:     b.tileURL,
		Attribution: b.attribution,
	}
}

func (b *LeafletBackend) NewSurface() (providers.MapSurface, error) {
	if b.tileURL == "" || b.attribution == "" {
		return nil, providers.ErrMapNotConfigured
	}
	return NewSurface(b.Basemap()), nil
}

// StaticImage draws an offline sketch; no tiles are fetched
func (b *LeafletBackend) StaticImage(ctx context.Context, scene entities.MapScene, width, height int) ([]byte, string, error) {
	data, err := b.sketcher.Scene(scene, width, height)
	if err != nil {
		return nil, "", err
	}
	return data, render.ContentTypePNG, nil
}

package providers

import (
	"context"
	"errors"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

// ErrMapNotConfigured is returned by backends missing required settings such as an API key.
var ErrMapNotConfigured = errors.New("map backend is not configured")

// MapSurface is the capability set every basemap backend exposes to the renderer
type MapSurface interface {
	// PlaceMarkers replaces the whole marker set.
	PlaceMarkers(markers []entities.Marker, clusters []entities.Cluster)

	SetCenter(center entities.Coordinates)
	SetZoom(zoom int)
	SetBounds(bounds *entities.Bounds)

	// Highlight restyles only the markers whose hover state changed.
	Highlight(id string)

	// OnMarkerHoverChange registers the handler for marker hover events;
	// it receives the marker id, or "" on un-hover.
	OnMarkerHoverChange(fn func(id string))

	// MarkerHover feeds a pointer event from the client into the surface.
	MarkerHover(id string, hovering bool)

	// Scene snapshots the surface state.
	Scene() entities.MapScene
}

// MapBackend is a pluggable basemap implementation
type MapBackend interface {
	Name() string
	SupportsClustering() bool
	Basemap() entities.Basemap

	// NewSurface returns ErrMapNotConfigured when the backend cannot render.
	NewSurface() (MapSurface, error)

	// StaticImage renders the scene as an image and returns its content type.
	StaticImage(ctx context.Context, scene entities.MapScene, width, height int) ([]byte, string, error)
}

package services

import (
	"context"
	"errors"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/render"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

const (
	ConfigurationNeededTitle   = "Map configuration needed"
	ConfigurationNeededMessage = "The hosted map service needs an API key. Set MAP_API_KEY to display the map."
)

// MapRendererConfig holds the viewport policy
type MapRendererConfig struct {
	DefaultCenter   entities.Coordinates
	DefaultZoom     int
	UserZoom        int
	ResultMinZoom   int
	MaxZoom         int
	ViewportWidth   int
	ViewportHeight  int
	BoundsPadding   float64
	Clustering      bool
	ClusterRadiusPx float64
}

// MapRenderer places results on a MapSurface and frames the view
type MapRenderer struct {
	backend  providers.MapBackend
	sketcher *render.Sketcher
	cfg      MapRendererConfig
}

// NewMapRenderer creates a renderer for backend; sketcher draws configuration notices
func NewMapRenderer(backend providers.MapBackend, sketcher *render.Sketcher, cfg MapRendererConfig) *MapRenderer {
	return &MapRenderer{backend: backend, sketcher: sketcher, cfg: cfg}
}

// NewSurface returns a fresh surface, or ErrMapNotConfigured
func (r *MapRenderer) NewSurface() (providers.MapSurface, error) {
	return r.backend.NewSurface()
}

// Viewport applies the centering policy: results first, then the user's
// location, then the fixed default.
func (r *MapRenderer) Viewport(items []entities.SearchResultItem, location entities.UserLocation) (entities.Coordinates, int, *entities.Bounds) {
	if len(items) > 0 {
		points := make([]entities.Coordinates, len(items))
		var lat, lng float64
		for i, item := range items {
			points[i] = item.Position()
			lat += item.Lat
			lng += item.Lng
		}
		center := entities.Coordinates{Lat: lat / float64(len(items)), Lng: lng / float64(len(items))}
		bounds := entities.BoundsOf(points)
		padded := bounds.Pad(r.cfg.BoundsPadding)
		zoom := entities.FitZoom(padded, r.cfg.ViewportWidth, r.cfg.ViewportHeight, r.cfg.MaxZoom)
		zoom = max(r.cfg.ResultMinZoom, min(zoom, r.cfg.MaxZoom))
		return center, zoom, bounds
	}
	if location.Known() {
		return *location.Coordinates, r.cfg.UserZoom, nil
	}
	return r.cfg.DefaultCenter, r.cfg.DefaultZoom, nil
}

// Render rebuilds the whole marker set and frames the view
func (r *MapRenderer) Render(surface providers.MapSurface, items []entities.SearchResultItem, location entities.UserLocation) {
	if surface == nil {
		return
	}
	center, zoom, bounds := r.Viewport(items, location)

	markers := make([]entities.Marker, len(items))
	for i, item := range items {
		markers[i] = entities.Marker{
			ID:       item.ID,
			Type:     item.Type,
			Icon:     item.Type.Icon(),
			Position: item.Position(),
			Popup:    entities.MarkerPopup{Title: item.Name, Subtitle: item.Location},
			Style:    entities.MarkerPrimary,
		}
	}
	var clusters []entities.Cluster
	if r.cfg.Clustering && r.backend.SupportsClustering() {
		clusters = clusterMarkers(markers, zoom, r.cfg.ClusterRadiusPx)
	}

	surface.SetCenter(center)
	surface.SetZoom(zoom)
	surface.SetBounds(bounds)
	surface.PlaceMarkers(markers, clusters)
}

// Reframe moves the view without touching markers
func (r *MapRenderer) Reframe(surface providers.MapSurface, items []entities.SearchResultItem, location entities.UserLocation) {
	if surface == nil {
		return
	}
	center, zoom, bounds := r.Viewport(items, location)
	surface.SetCenter(center)
	surface.SetZoom(zoom)
	surface.SetBounds(bounds)
}

// Scene snapshots surface with the welcome overlay; a nil surface yields the
// configuration-needed scene.
func (r *MapRenderer) Scene(surface providers.MapSurface, welcome entities.WelcomeView) entities.MapScene {
	if surface == nil {
		return entities.MapScene{
			Basemap:             r.backend.Basemap(),
			Center:              r.cfg.DefaultCenter,
			Zoom:                r.cfg.DefaultZoom,
			Markers:             []entities.Marker{},
			ConfigurationNeeded: ConfigurationNeededMessage,
		}
	}
	scene := surface.Scene()
	scene.Welcome = welcome
	return scene
}

// StaticImage renders scene through the backend; an unconfigured backend
// yields a PNG notice instead of an error.
func (r *MapRenderer) StaticImage(ctx context.Context, scene entities.MapScene, width, height int) ([]byte, string, error) {
	if width <= 0 || height <= 0 {
		width, height = r.cfg.ViewportWidth, r.cfg.ViewportHeight
	}
	if scene.ConfigurationNeeded == "" {
		data, contentType, err := r.backend.StaticImage(ctx, scene, width, height)
		if err == nil {
			return data, contentType, nil
		}
		if !errors.Is(err, providers.ErrMapNotConfigured) {
			return nil, "", apperrors.NewExternalError("failed to render map image", err)
		}
	}
	data, err := r.sketcher.Notice(ConfigurationNeededTitle, ConfigurationNeededMessage, width, height)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to render configuration notice", err)
	}
	return data, render.ContentTypePNG, nil
}

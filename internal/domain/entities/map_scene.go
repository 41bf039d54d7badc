package entities

import "math"

// MarkerStyle is the two-tone marker styling.
type MarkerStyle string

const (
	MarkerPrimary MarkerStyle = "primary"
	MarkerAccent  MarkerStyle = "accent"
)

// StyleFor returns accent for the hovered marker and primary otherwise.
func StyleFor(hovered bool) MarkerStyle {
	if hovered {
		return MarkerAccent
	}
	return MarkerPrimary
}

// MarkerPopup is the content bound to a marker's popup.
type MarkerPopup struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Marker is one result placed on the map.
type Marker struct {
	ID       string      `json:"id"`
	Type     ResultType  `json:"type"`
	Icon     string      `json:"icon"`
	Position Coordinates `json:"position"`
	Popup    MarkerPopup `json:"popup"`
	Style    MarkerStyle `json:"style"`
}

// Cluster groups nearby markers into one badge.
type Cluster struct {
	ID          string      `json:"id"`
	Center      Coordinates `json:"center"`
	Count       int         `json:"count"`
	MarkerIDs   []string    `json:"marker_ids"`
	Highlighted bool        `json:"highlighted"`
}

// Bounds is a lat/lng rectangle.
type Bounds struct {
	SouthWest Coordinates `json:"south_west"`
	NorthEast Coordinates `json:"north_east"`
}

// BoundsOf returns the smallest rectangle containing every point, or nil for none.
func BoundsOf(points []Coordinates) *Bounds {
	if len(points) == 0 {
		return nil
	}
	b := &Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, p.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, p.Lng)
	}
	return b
}

// Pad extends each side by ratio of the span, as Leaflet's LatLngBounds.pad does.
func (b Bounds) Pad(ratio float64) Bounds {
	dLat := (b.NorthEast.Lat - b.SouthWest.Lat) * ratio
	dLng := (b.NorthEast.Lng - b.SouthWest.Lng) * ratio
	return Bounds{
		SouthWest: Coordinates{Lat: b.SouthWest.Lat - dLat, Lng: b.SouthWest.Lng - dLng},
		NorthEast: Coordinates{Lat: b.NorthEast.Lat + dLat, Lng: b.NorthEast.Lng + dLng},
	}
}

// Basemap describes the tile source or hosted map service clients must load.
type Basemap struct {
	Backend     string `json:"backend"`
	TileURL     string `json:"tile_url,omitempty"`
	Attribution string `json:"attribution,omitempty"`
	// APIKey is the browser key of the hosted map service.
	APIKey string `json:"api_key,omitempty"`
	MapID  string `json:"map_id,omitempty"`
}

// MapScene is the complete map state as sent to clients.
type MapScene struct {
	Basemap   Basemap     `json:"basemap"`
	Center    Coordinates `json:"center"`
	Zoom      int         `json:"zoom"`
	Bounds    *Bounds     `json:"bounds,omitempty"`
	Markers   []Marker    `json:"markers"`
	Clusters  []Cluster   `json:"clusters,omitempty"`
	HoveredID string      `json:"hovered_id,omitempty"`
	// Generation increases on every full marker rebuild; hover restyles keep it.
	Generation          uint64      `json:"generation"`
	Welcome             WelcomeView `json:"welcome"`
	ConfigurationNeeded string      `json:"configuration_needed,omitempty"`
}

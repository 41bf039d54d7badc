package geolocation

import (
	"context"
	"unicode/utf16"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

// DefaultBase is the Los Angeles base coordinate the pseudo-geocoder scatters around.
var DefaultBase = entities.Coordinates{Lat: 34.0522, Lng: -118.2437}

// HashGeocoder derives a plausible coordinate from a location label without any I/O.
// Two labels may land on the same spot; the output is a placeholder, not a real position.
type HashGeocoder struct {
	base entities.Coordinates
}

var _ providers.Geocoder = (*HashGeocoder)(nil)

// NewHashGeocoder creates a geocoder scattering around base
func NewHashGeocoder(base entities.Coordinates) *HashGeocoder {
	return &HashGeocoder{base: base}
}

// Geocode maps location to a point within 0.05 degrees of the base coordinate.
// An empty label yields the base itself.
func (g *HashGeocoder) Geocode(ctx context.Context, location string) (*entities.Coordinates, error) {
	h := labelHash(location)
	// Go's % truncates toward zero, so negative hashes move south and west of the base.
	return &entities.Coordinates{
		Lat: g.base.Lat + float64(h%1000)/20000,
		Lng: g.base.Lng + float64(h%2000)/40000,
	}, nil
}

// labelHash is the 31-multiplier string hash over UTF-16 code units with int32 wraparound.
func labelHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = int32(c) + (h << 5) - h
	}
	return h
}

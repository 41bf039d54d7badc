package providers

import (
	"context"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

// Geocoder converts a free-text location into coordinates
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*entities.Coordinates, error)
}

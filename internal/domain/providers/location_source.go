package providers

import (
	"context"
	"errors"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

var (
	// ErrLocationDenied is returned when the user refused the permission prompt.
	ErrLocationDenied = errors.New("geolocation permission denied")

	// ErrLocationUnavailable is returned when the capability is missing.
	ErrLocationUnavailable = errors.New("geolocation unavailable")
)

// LocationSource yields the user's position once. CurrentPosition blocks
// until the position is known, refused, or ctx is done.
type LocationSource interface {
	CurrentPosition(ctx context.Context) (*entities.Coordinates, error)
}

// LocationReporter accepts the browser's answer for a LocationSource.
// Both methods return false once an answer was already recorded.
type LocationReporter interface {
	Report(coords entities.Coordinates) bool
	Deny(reason string) bool
}

// ReportableLocationSource is a LocationSource fed by the browser over HTTP.
type ReportableLocationSource interface {
	LocationSource
	LocationReporter
}

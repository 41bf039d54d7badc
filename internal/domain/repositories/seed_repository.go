package repositories

import (
	"context"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

// AllCities selects every city in browse mode.
const AllCities = "All"

// SeedRepository serves the static, pre-geocoded places dataset
type SeedRepository interface {
	// Cities returns the distinct city names in dataset order.
	Cities(ctx context.Context) ([]string, error)

	// ListByCity returns the places of one city; "" and AllCities return everything.
	ListByCity(ctx context.Context, city string) ([]entities.RawResult, error)

	// All returns the whole dataset.
	All(ctx context.Context) ([]entities.RawResult, error)
}

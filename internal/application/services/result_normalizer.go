package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

// ResultNormalizer assigns ids and coordinates to raw results
type ResultNormalizer struct {
	geocoder    providers.Geocoder
	concurrency int
}

// NewResultNormalizer creates a normalizer geocoding at most concurrency items at once
func NewResultNormalizer(geocoder providers.Geocoder, concurrency int) *ResultNormalizer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ResultNormalizer{geocoder: geocoder, concurrency: concurrency}
}

// Normalize returns one item per raw result with id "name-index". Items without
// coordinates are geocoded from their location label concurrently; the call
// returns only after the whole batch settled, and any failure fails the batch.
func (n *ResultNormalizer) Normalize(ctx context.Context, raw []entities.RawResult) ([]entities.SearchResultItem, error) {
	items := make([]entities.SearchResultItem, len(raw))
	for i, r := range raw {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: result %d has no name", providers.ErrSearchSchema, i)
		}
		if !r.Type.Valid() {
			return nil, fmt.Errorf("%w: result %d has unknown type %q", providers.ErrSearchSchema, i, r.Type)
		}
		items[i] = entities.SearchResultItem{
			ID:          entities.ItemID(r.Name, i),
			Type:        r.Type,
			Name:        r.Name,
			Description: r.Description,
			Location:    r.Location,
			City:        r.City,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)
	for i, r := range raw {
		if r.Coordinates != nil {
			items[i].Lat, items[i].Lng = r.Coordinates.Lat, r.Coordinates.Lng
			continue
		}
		g.Go(func() error {
			coords, err := n.geocoder.Geocode(gctx, r.Location)
			if err != nil {
				return fmt.Errorf("failed to geocode %q: %w", r.Location, err)
			}
			items[i].Lat, items[i].Lng = coords.Lat, coords.Lng
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	tsclient "github.com/localpulse/localpulse/internal/infrastructure/clients/typesense"
)

const (
	queryByFields  = "name,description,location,city,type"
	defaultPerPage = 20
)

// TypesenseAdapter searches the indexed seed dataset by keyword
type TypesenseAdapter struct {
	client  *tsclient.Client
	perPage int
}

var _ providers.SearchProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client, perPage: defaultPerPage}
}

// Name identifies the provider in logs and metrics
func (a *TypesenseAdapter) Name() string {
	return "typesense"
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Reset drops and recreates the collection
func (a *TypesenseAdapter) Reset(ctx context.Context) error {
	if err := a.client.DropSchema(ctx); err != nil {
		return err
	}
	return a.client.InitSchema(ctx)
}

// IndexPlaces upserts every place; the slice position becomes the document id
func (a *TypesenseAdapter) IndexPlaces(ctx context.Context, places []entities.RawResult) (int, error) {
	indexed := 0
	for i, place := range places {
		doc, err := documentFromPlace(i, place)
		if err != nil {
			return indexed, err
		}
		if err := a.client.IndexPlace(ctx, doc); err != nil {
			return indexed, fmt.Errorf("failed to index place %q: %w", place.Name, err)
		}
		indexed++
	}
	return indexed, nil
}

// Search runs a keyword query, nearest first when the user location is known
func (a *TypesenseAdapter) Search(ctx context.Context, input providers.SearchInput) (*providers.SearchOutput, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(input.Keywords),
		QueryBy: pointer.String(queryByFields),
		PerPage: pointer.Int(a.perPage),
	}
	if sortBy := sortByDistance(input.UserLocation); sortBy != "" {
		params.SortBy = pointer.String(sortBy)
	}

	result, err := a.client.Client().Collection(tsclient.PlacesCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search places: %w", err)
	}

	out := &providers.SearchOutput{Results: []entities.RawResult{}}
	if result.Hits == nil {
		return out, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		place, err := placeFromDocument(*hit.Document)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", providers.ErrSearchSchema, err)
		}
		out.Results = append(out.Results, place)
	}
	return out, nil
}

func documentFromPlace(position int, place entities.RawResult) (map[string]interface{}, error) {
	if place.Coordinates == nil {
		return nil, fmt.Errorf("place %q has no coordinates", place.Name)
	}
	return map[string]interface{}{
		"id":          "place-" + strconv.Itoa(position),
		"name":        place.Name,
		"description": place.Description,
		"location":    place.Location,
		"type":        string(place.Type),
		"city":        place.City,
		"coordinates": []float64{place.Coordinates.Lat, place.Coordinates.Lng},
		"position":    position,
	}, nil
}

func placeFromDocument(doc map[string]interface{}) (entities.RawResult, error) {
	var place entities.RawResult

	name, ok := doc["name"].(string)
	if !ok || name == "" {
		return place, fmt.Errorf("document %v has no name", doc["id"])
	}
	place.Name = name
	place.Type = entities.ResultType(stringField(doc, "type"))
	if !place.Type.Valid() {
		return place, fmt.Errorf("document %q has unknown type %q", name, place.Type)
	}
	place.Description = stringField(doc, "description")
	place.Location = stringField(doc, "location")
	place.City = stringField(doc, "city")

	if raw, ok := doc["coordinates"].([]interface{}); ok && len(raw) == 2 {
		lat, latOK := raw[0].(float64)
		lng, lngOK := raw[1].(float64)
		if latOK && lngOK {
			place.Coordinates = &entities.Coordinates{Lat: lat, Lng: lng}
		}
	}
	return place, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

// sortByDistance turns a "lat,lng" location into a geo sort clause, or "" if unparseable.
func sortByDistance(userLocation string) string {
	latStr, lngStr, ok := strings.Cut(userLocation, ",")
	if !ok {
		return ""
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return ""
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("_text_match:desc,coordinates(%s, %s):asc",
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lng, 'f', -1, 64))
}

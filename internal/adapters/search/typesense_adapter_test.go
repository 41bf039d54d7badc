package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

func TestDocumentRoundTrip(t *testing.T) {
	place := entities.RawResult{
		Type:        entities.ResultTypeShop,
		Name:        "Khan Market",
		Description: "An upscale market.",
		Location:    "Khan Market, New Delhi",
		City:        "Delhi",
		Coordinates: &entities.Coordinates{Lat: 28.6003, Lng: 77.2272},
	}

	doc, err := documentFromPlace(1, place)
	require.NoError(t, err)
	assert.Equal(t, "place-1", doc["id"])
	assert.Equal(t, []float64{28.6003, 77.2272}, doc["coordinates"])

	// Typesense hands geopoints back as a generic JSON array.
	doc["coordinates"] = []interface{}{28.6003, 77.2272}
	got, err := placeFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, place, got)
}

func TestDocumentFromPlace_RequiresCoordinates(t *testing.T) {
	_, err := documentFromPlace(0, entities.RawResult{Name: "Nowhere", Type: entities.ResultTypeEvent})
	assert.Error(t, err)
}

func TestPlaceFromDocument_RejectsInvalidDocuments(t *testing.T) {
	_, err := placeFromDocument(map[string]interface{}{"id": "place-0", "type": "event"})
	assert.ErrorContains(t, err, "no name")

	_, err = placeFromDocument(map[string]interface{}{"name": "X", "type": "restaurant"})
	assert.ErrorContains(t, err, "unknown type")
}

func TestSortByDistance(t *testing.T) {
	assert.Equal(t, "_text_match:desc,coordinates(12.97, 77.59):asc", sortByDistance("12.97,77.59"))
	assert.Equal(t, "", sortByDistance(""))
	assert.Equal(t, "", sortByDistance("north,east"))
	assert.Equal(t, "", sortByDistance("12.97"))
}

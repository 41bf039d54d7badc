package entities

import (
	"fmt"
	"strconv"
)

// ResultType is the closed category set of a search result.
type ResultType string

const (
	ResultTypeEvent    ResultType = "event"
	ResultTypeBusiness ResultType = "business"
	ResultTypeShop     ResultType = "shop"
	ResultTypeMall     ResultType = "mall"
)

// ResultTypes lists every known category in display order.
var ResultTypes = []ResultType{ResultTypeEvent, ResultTypeBusiness, ResultTypeShop, ResultTypeMall}

// Valid reports whether t is one of the known categories.
func (t ResultType) Valid() bool {
	switch t {
	case ResultTypeEvent, ResultTypeBusiness, ResultTypeShop, ResultTypeMall:
		return true
	}
	return false
}

// Icon returns the icon key clients use for this category.
func (t ResultType) Icon() string {
	switch t {
	case ResultTypeEvent:
		return "calendar"
	case ResultTypeMall:
		return "building"
	default:
		return "package"
	}
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the pair as "lat,lng", the wire format of the search collaborator.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Valid reports whether the pair lies on the globe.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// RawResult is a result as returned by a search provider or the seed dataset,
// before ids are assigned.
type RawResult struct {
	Type        ResultType   `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// SearchResultItem is a normalized place or event ready to be listed and mapped.
type SearchResultItem struct {
	ID          string     `json:"id"`
	Type        ResultType `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	City        string     `json:"city,omitempty"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
}

// Position returns the item's coordinate pair.
func (i SearchResultItem) Position() Coordinates {
	return Coordinates{Lat: i.Lat, Lng: i.Lng}
}

// ItemID builds the id of the item at index in the current list.
func ItemID(name string, index int) string {
	return fmt.Sprintf("%s-%d", name, index)
}

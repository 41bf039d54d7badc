package providers

import (
	"context"
	"errors"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

// ErrSearchSchema marks a collaborator response that does not match the result schema.
var ErrSearchSchema = errors.New("search response does not match schema")

// SearchInput is the request sent to the search collaborator
type SearchInput struct {
	Keywords string `json:"keywords"`
	// UserLocation is "lat,lng"; omitted when the location is unknown.
	UserLocation string `json:"userLocation,omitempty"`
}

// SearchOutput is the validated response of the search collaborator
type SearchOutput struct {
	Results []entities.RawResult `json:"results"`
}

// SearchProvider finds events and businesses for free-text keywords
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, input SearchInput) (*SearchOutput, error)
}

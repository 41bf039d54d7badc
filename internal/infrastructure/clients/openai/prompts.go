package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

const smartSearchSystemPrompt = `You are a search assistant helping users find local events and businesses.

Based on the user's keywords and location, find relevant events and businesses.
Return a list of results, including the type (event or business), name, description, and a general location name (not a full address).
Prioritize results that are near the user's location if provided.

Return ONLY valid JSON with this schema:
{
  "results": [
    {
      "type": "event" | "business",
      "name": string,
      "description": string (one short sentence),
      "location": string (a general place name such as "Downtown Los Angeles" or "Santa Monica Pier")
    }
  ]
}`

func buildSmartSearchUserPrompt(input providers.SearchInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Keywords: %s\n", input.Keywords)
	if input.UserLocation != "" {
		fmt.Fprintf(&b, "User's Location (lat,lon): %s\n", input.UserLocation)
	}
	return b.String()
}

// smartSearchResult uses pointers so that absent fields can be told apart from empty ones.
type smartSearchResult struct {
	Type        *string `json:"type"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

type smartSearchPayload struct {
	Results *[]smartSearchResult `json:"results"`
}

// stripCodeFence removes a markdown code block around the model output.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

// parseSmartSearchPayload decodes the model output and rejects anything that
// does not match the result schema exactly.
func parseSmartSearchPayload(data []byte) (*providers.SearchOutput, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var payload smartSearchPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrSearchSchema, err)
	}
	if payload.Results == nil {
		return nil, fmt.Errorf("%w: missing results", providers.ErrSearchSchema)
	}

	out := &providers.SearchOutput{Results: make([]entities.RawResult, 0, len(*payload.Results))}
	for i, r := range *payload.Results {
		if r.Type == nil || r.Name == nil || r.Description == nil || r.Location == nil {
			return nil, fmt.Errorf("%w: result %d is missing a required field", providers.ErrSearchSchema, i)
		}
		typ := entities.ResultType(*r.Type)
		if typ != entities.ResultTypeEvent && typ != entities.ResultTypeBusiness {
			return nil, fmt.Errorf("%w: result %d has type %q", providers.ErrSearchSchema, i, *r.Type)
		}
		out.Results = append(out.Results, entities.RawResult{
			Type:        typ,
			Name:        *r.Name,
			Description: *r.Description,
			Location:    *r.Location,
		})
	}
	return out, nil
}

package entities

// LocationStatus is the tri-state of the one-shot geolocation request.
type LocationStatus string

const (
	LocationPending   LocationStatus = "pending"
	LocationAvailable LocationStatus = "available"
	LocationDenied    LocationStatus = "denied"
)

// UserLocation is the outcome of the browser geolocation request for one page view.
type UserLocation struct {
	Status      LocationStatus `json:"status"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
}

// Known reports whether coordinates are available.
func (l UserLocation) Known() bool {
	return l.Status == LocationAvailable && l.Coordinates != nil
}

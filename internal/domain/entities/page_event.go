package entities

import "time"

// PageEventType names a change pushed to every pane of a page view.
type PageEventType string

const (
	EventHoverChanged     PageEventType = "hover.changed"
	EventResultsReplaced  PageEventType = "results.replaced"
	EventSearchStarted    PageEventType = "search.started"
	EventSearchFailed     PageEventType = "search.failed"
	EventWelcomeChanged   PageEventType = "welcome.changed"
	EventLocationResolved PageEventType = "location.resolved"
)

// PageEvent is published on the session channel whenever shared state changes.
type PageEvent struct {
	ID          string        `json:"id"`
	SessionID   string        `json:"session_id"`
	Type        PageEventType `json:"type"`
	HoveredID   string        `json:"hovered_id,omitempty"`
	Source      string        `json:"source,omitempty"`
	ResultCount int           `json:"result_count,omitempty"`
	Sequence    uint64        `json:"sequence,omitempty"`
	Location    *UserLocation `json:"location,omitempty"`
	Message     string        `json:"message,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

package providers

import (
	"context"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

// EventBus fans page events out to every pane subscribed to a session
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.PageEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.PageEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSessionPrefix is the prefix for per-page-view channels
const EventChannelSessionPrefix = "session:"

// GetSessionChannel returns the channel name for a page view
func GetSessionChannel(sessionID string) string {
	return EventChannelSessionPrefix + sessionID
}

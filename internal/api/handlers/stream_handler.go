package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/localpulse/localpulse/internal/infrastructure/observability"
)

// StreamHandler pushes page events to every pane over Server-Sent Events
type StreamHandler struct {
	service   PageService
	heartbeat time.Duration
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(service PageService) *StreamHandler {
	return &StreamHandler{service: service, heartbeat: 30 * time.Second}
}

// WithHeartbeat overrides the keep-alive interval
func (h *StreamHandler) WithHeartbeat(interval time.Duration) *StreamHandler {
	h.heartbeat = interval
	return h
}

// StreamEvents handles GET /api/sessions/{id}/events
func (h *StreamHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	logger := observability.LoggerFromContext(observability.ContextWithSession(r.Context(), sessionID))

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.sendEvent(w, "connected", map[string]interface{}{
		"session_id": sessionID,
		"timestamp":  time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Msg("client disconnected from session stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// sendEvent sends an SSE event to the client
func (h *StreamHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/localpulse/localpulse/internal/api/handlers"
	"github.com/localpulse/localpulse/internal/domain/entities"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

func TestStreamHandler_StreamEvents(t *testing.T) {
	events := make(chan *entities.PageEvent, 1)
	svc := new(mockPageService)
	svc.On("Subscribe", mock.Anything, "s-1").Return((<-chan *entities.PageEvent)(events), nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/events", nil).WithContext(ctx)
	req.SetPathValue("id", "s-1")
	w := httptest.NewRecorder()

	events <- &entities.PageEvent{SessionID: "s-1", Type: entities.EventHoverChanged, HoveredID: "Cafe X-0", Source: "map"}

	done := make(chan struct{})
	go func() {
		handlers.NewStreamHandler(svc).WithHeartbeat(time.Hour).StreamEvents(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "event: connected\n"))
	assert.Contains(t, body, "event: hover.changed\ndata: ")
	assert.Contains(t, body, `"hovered_id":"Cafe X-0"`)
}

func TestStreamHandler_ClosedChannelEndsStream(t *testing.T) {
	events := make(chan *entities.PageEvent)
	close(events)
	svc := new(mockPageService)
	svc.On("Subscribe", mock.Anything, "s-1").Return((<-chan *entities.PageEvent)(events), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/events", nil)
	req.SetPathValue("id", "s-1")
	w := httptest.NewRecorder()

	handlers.NewStreamHandler(svc).StreamEvents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "event: connected")
}

func TestStreamHandler_UnknownSession(t *testing.T) {
	svc := new(mockPageService)
	svc.On("Subscribe", mock.Anything, "nope").Return(nil, apperrors.NewNotFoundError("session not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/nope/events", nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()

	handlers.NewStreamHandler(svc).StreamEvents(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

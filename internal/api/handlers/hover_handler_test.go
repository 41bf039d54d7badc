package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/api/handlers"
	"github.com/localpulse/localpulse/internal/application/services"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

func TestHoverHandler_SetHover(t *testing.T) {
	t.Run("map source", func(t *testing.T) {
		svc := new(mockPageService)
		svc.On("SetHover", mock.Anything, "s-1", "Cafe X-0", services.HoverSourceMap).Return("Cafe X-0", nil)

		req := httptest.NewRequest(http.MethodPut, "/api/sessions/s-1/hover", strings.NewReader(`{"id":"Cafe X-0","source":"map"}`))
		req.SetPathValue("id", "s-1")
		w := httptest.NewRecorder()

		handlers.NewHoverHandler(svc).SetHover(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Cafe X-0", body["hovered_id"])
	})

	t.Run("unknown result", func(t *testing.T) {
		svc := new(mockPageService)
		svc.On("SetHover", mock.Anything, "s-1", "ghost", services.HoverSourceList).
			Return("", apperrors.NewNotFoundError("result not found"))

		req := httptest.NewRequest(http.MethodPut, "/api/sessions/s-1/hover", strings.NewReader(`{"id":"ghost"}`))
		req.SetPathValue("id", "s-1")
		w := httptest.NewRecorder()

		handlers.NewHoverHandler(svc).SetHover(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown source", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/sessions/s-1/hover", strings.NewReader(`{"id":"a","source":"keyboard"}`))
		req.SetPathValue("id", "s-1")
		w := httptest.NewRecorder()

		handlers.NewHoverHandler(new(mockPageService)).SetHover(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "source", decodeError(t, w).Field)
	})
}

func TestHoverHandler_ClearHover(t *testing.T) {
	svc := new(mockPageService)
	svc.On("ClearHover", mock.Anything, "s-1", services.HoverSourceMap).Return("", nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/s-1/hover?source=map", nil)
	req.SetPathValue("id", "s-1")
	w := httptest.NewRecorder()

	handlers.NewHoverHandler(svc).ClearHover(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hovered_id":""}`, w.Body.String())
	svc.AssertExpectations(t)
}

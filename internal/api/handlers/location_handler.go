package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/localpulse/localpulse/internal/domain/entities"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

// locationWait bounds how long a report waits for the session to apply it.
const locationWait = 5 * time.Second

// LocationHandler receives the browser's one-shot geolocation answer
type LocationHandler struct {
	service PageService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service PageService) *LocationHandler {
	return &LocationHandler{service: service}
}

type locationRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

// ReportLocation handles POST /api/sessions/{id}/location
func (h *LocationHandler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), locationWait)
	defer cancel()

	var (
		location entities.UserLocation
		err      error
	)
	switch {
	case req.Error != "":
		location, err = h.service.DenyLocation(ctx, r.PathValue("id"), req.Error)
	case req.Lat == nil || req.Lng == nil:
		err = apperrors.NewValidationError("either lat and lng or error is required")
	default:
		location, err = h.service.ReportLocation(ctx, r.PathValue("id"), entities.Coordinates{Lat: *req.Lat, Lng: *req.Lng})
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, location)
}

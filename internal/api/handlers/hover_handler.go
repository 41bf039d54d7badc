package handlers

import (
	"net/http"

	"github.com/localpulse/localpulse/internal/application/services"
)

// HoverHandler syncs the hovered result between the list and the map
type HoverHandler struct {
	service PageService
}

// NewHoverHandler creates a new hover handler
func NewHoverHandler(service PageService) *HoverHandler {
	return &HoverHandler{service: service}
}

type hoverRequest struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

type hoverResponse struct {
	HoveredID string `json:"hovered_id"`
}

// SetHover handles PUT /api/sessions/{id}/hover
func (h *HoverHandler) SetHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	source, err := services.ParseHoverSource(req.Source)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	current, err := h.service.SetHover(r.Context(), r.PathValue("id"), req.ID, source)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hoverResponse{HoveredID: current})
}

// ClearHover handles DELETE /api/sessions/{id}/hover?source=
func (h *HoverHandler) ClearHover(w http.ResponseWriter, r *http.Request) {
	source, err := services.ParseHoverSource(r.URL.Query().Get("source"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	current, err := h.service.ClearHover(r.Context(), r.PathValue("id"), source)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hoverResponse{HoveredID: current})
}

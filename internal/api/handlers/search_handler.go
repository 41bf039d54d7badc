package handlers

import (
	"net/http"

	"github.com/localpulse/localpulse/internal/application/services"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

// SearchHandler dispatches smart searches for a page view
type SearchHandler struct {
	service PageService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service PageService) *SearchHandler {
	return &SearchHandler{service: service}
}

type searchRequest struct {
	Keywords string `json:"keywords"`
}

// Search handles POST /api/sessions/{id}/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	state, err := h.service.Search(r.Context(), r.PathValue("id"), req.Keywords)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeExternal) {
			respondWithJSON(w, http.StatusBadGateway, ErrorResponse{
				Title: services.SearchFailedTitle,
				Error: services.SearchFailedMessage,
			})
			return
		}
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

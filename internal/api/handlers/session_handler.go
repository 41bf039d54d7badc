package handlers

import (
	"net/http"
)

// SessionHandler handles page-view lifecycle requests
type SessionHandler struct {
	service PageService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service PageService) *SessionHandler {
	return &SessionHandler{service: service}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Create(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, state)
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

type browseRequest struct {
	City string `json:"city"`
}

// Browse handles POST /api/sessions/{id}/browse
func (h *SessionHandler) Browse(w http.ResponseWriter, r *http.Request) {
	var req browseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	state, err := h.service.Browse(r.Context(), r.PathValue("id"), req.City)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// ListCities handles GET /api/cities
func (h *SessionHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Cities(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"cities": cities,
	})
}

// DismissWelcome handles POST /api/sessions/{id}/welcome/dismiss
func (h *SessionHandler) DismissWelcome(w http.ResponseWriter, r *http.Request) {
	welcome, err := h.service.DismissWelcome(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, welcome)
}

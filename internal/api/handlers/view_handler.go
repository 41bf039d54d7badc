package handlers

import (
	"net/http"
	"strconv"

	"github.com/localpulse/localpulse/internal/application/services"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

// ViewHandler serves the results list and the map of a page view
type ViewHandler struct {
	service PageService
}

// NewViewHandler creates a new view handler
func NewViewHandler(service PageService) *ViewHandler {
	return &ViewHandler{service: service}
}

// GetList handles GET /api/sessions/{id}/list?type=&sort=
func (h *ViewHandler) GetList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := services.ParseFilter(query.Get("type"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	order, err := services.ParseSort(query.Get("sort"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	view, err := h.service.ListView(r.Context(), r.PathValue("id"), filter, order)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// GetMap handles GET /api/sessions/{id}/map
func (h *ViewHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	scene, err := h.service.MapScene(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, scene)
}

// GetStaticMap handles GET /api/sessions/{id}/map.png?width=&height=
func (h *ViewHandler) GetStaticMap(w http.ResponseWriter, r *http.Request) {
	width, err := dimension(r, "width")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	height, err := dimension(r, "height")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	data, contentType, err := h.service.StaticMap(r.Context(), r.PathValue("id"), width, height)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// dimension parses an optional positive pixel size; 0 means the default viewport
func dimension(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > 2048 {
		return 0, apperrors.NewFieldValidationError(name, name+" must be between 1 and 2048")
	}
	return v, nil
}

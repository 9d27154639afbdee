package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/metrics"
	"github.com/solera-labs/estancia/internal/service"
)

// AmenityHandler handles the amenity catalogue. Reads are public; writes are
// registered behind the admin middleware by the router.
type AmenityHandler struct {
	amenities *service.AmenityService
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewAmenityHandler creates a new AmenityHandler.
func NewAmenityHandler(amenities *service.AmenityService, m *metrics.Metrics, logger zerolog.Logger) *AmenityHandler {
	return &AmenityHandler{
		amenities: amenities,
		metrics:   m,
		logger:    logger.With().Str("handler", "amenity").Logger(),
	}
}

// RegisterPublicRoutes registers the routes that need no token.
func (h *AmenityHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/amenities/", h.handleList)
	r.Get("/amenities/{id}", h.handleGet)
}

// RegisterAdminRoutes registers the admin-only routes.
func (h *AmenityHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/amenities/", h.handleCreate)
	r.Put("/amenities/{id}", h.handleUpdate)
	r.Delete("/amenities/{id}", h.handleDelete)
}

type createAmenityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AmenityHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAmenityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amenity, err := h.amenities.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.EntitiesCreated.WithLabelValues("amenity").Inc()
	writeJSON(w, http.StatusCreated, amenity)
}

func (h *AmenityHandler) handleList(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.amenities.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if amenities == nil {
		amenities = []*domain.Amenity{}
	}
	writeJSON(w, http.StatusOK, amenities)
}

func (h *AmenityHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	amenity, err := h.amenities.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amenity)
}

type updateAmenityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *AmenityHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateAmenityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amenity, err := h.amenities.Update(r.Context(), chi.URLParam(r, "id"), domain.AmenityUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amenity)
}

func (h *AmenityHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.amenities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

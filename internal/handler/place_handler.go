package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/auth"
	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/metrics"
	"github.com/solera-labs/estancia/internal/service"
)

// PlaceHandler handles rental listings.
type PlaceHandler struct {
	places  *service.PlaceService
	reviews *service.ReviewService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(places *service.PlaceService, reviews *service.ReviewService, m *metrics.Metrics, logger zerolog.Logger) *PlaceHandler {
	return &PlaceHandler{
		places:  places,
		reviews: reviews,
		metrics: m,
		logger:  logger.With().Str("handler", "place").Logger(),
	}
}

// RegisterPublicRoutes registers the routes that need no token.
func (h *PlaceHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/places/", h.handleList)
	r.Get("/places/{id}", h.handleGet)
	r.Get("/places/{id}/reviews", h.handleListReviews)
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (h *PlaceHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/places/", h.handleCreate)
	r.Put("/places/{id}", h.handleUpdate)
	r.Delete("/places/{id}", h.handleDelete)
}

type createPlaceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenities"`
}

// handleCreate creates a place owned by the caller. Admins may create
// listings on behalf of another user by setting owner_id.
func (h *PlaceHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, auth.ErrForbidden)
		return
	}

	var req createPlaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ownerID := identity.UserID
	if identity.IsAdmin && req.OwnerID != "" {
		ownerID = req.OwnerID
	}

	place, err := h.places.Create(r.Context(), service.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OwnerID:     ownerID,
		AmenityIDs:  req.AmenityIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.EntitiesCreated.WithLabelValues("place").Inc()
	writeJSON(w, http.StatusCreated, place)
}

func (h *PlaceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.places.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *PlaceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.places.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleListReviews returns the reviews of a place. An unknown place yields
// an empty list, not a 404.
func (h *PlaceHandler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByPlace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

type updatePlaceRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (h *PlaceHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.authorizeOwner(r, id); err != nil {
		writeError(w, err)
		return
	}

	var req updatePlaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	place, err := h.places.Update(r.Context(), id, domain.PlaceUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

func (h *PlaceHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.authorizeOwner(r, id); err != nil {
		writeError(w, err)
		return
	}

	if err := h.places.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// authorizeOwner allows the place's owner and admins through.
func (h *PlaceHandler) authorizeOwner(r *http.Request, placeID string) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.ErrForbidden
	}
	if identity.IsAdmin {
		return nil
	}

	place, err := h.places.GetRaw(r.Context(), placeID)
	if err != nil {
		return err
	}
	if place.OwnerID != identity.UserID {
		return auth.ErrForbidden
	}
	return nil
}

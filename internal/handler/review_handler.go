package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/auth"
	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/metrics"
	"github.com/solera-labs/estancia/internal/service"
)

// ReviewHandler handles reviews.
type ReviewHandler struct {
	reviews *service.ReviewService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService, m *metrics.Metrics, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		metrics: m,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// RegisterPublicRoutes registers the routes that need no token.
func (h *ReviewHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/reviews/", h.handleList)
	r.Get("/reviews/{id}", h.handleGet)
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (h *ReviewHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/reviews/", h.handleCreate)
	r.Put("/reviews/{id}", h.handleUpdate)
	r.Delete("/reviews/{id}", h.handleDelete)
}

type createReviewRequest struct {
	Text    string      `json:"text"`
	Rating  json.Number `json:"rating"`
	PlaceID string      `json:"place_id"`
}

// handleCreate creates a review authored by the caller. The rating is
// decoded as json.Number so fractional values are rejected instead of being
// truncated.
func (h *ReviewHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, auth.ErrForbidden)
		return
	}

	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rating, err := intRating(req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), service.CreateReviewInput{
		Text:    req.Text,
		Rating:  rating,
		UserID:  identity.UserID,
		PlaceID: req.PlaceID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.EntitiesCreated.WithLabelValues("review").Inc()
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) handleList(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

type updateReviewRequest struct {
	Text   *string      `json:"text"`
	Rating *json.Number `json:"rating"`
}

func (h *ReviewHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.authorizeAuthor(r, id); err != nil {
		writeError(w, err)
		return
	}

	var req updateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	upd := domain.ReviewUpdate{Text: req.Text}
	if req.Rating != nil {
		rating, err := intRating(*req.Rating)
		if err != nil {
			writeError(w, err)
			return
		}
		upd.Rating = &rating
	}

	review, err := h.reviews.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.authorizeAuthor(r, id); err != nil {
		writeError(w, err)
		return
	}

	if err := h.reviews.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// authorizeAuthor allows the review's author and admins through.
func (h *ReviewHandler) authorizeAuthor(r *http.Request, reviewID string) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.ErrForbidden
	}
	if identity.IsAdmin {
		return nil
	}

	review, err := h.reviews.Get(r.Context(), reviewID)
	if err != nil {
		return err
	}
	if review.UserID != identity.UserID {
		return auth.ErrForbidden
	}
	return nil
}

// intRating rejects missing and non-integer ratings before the domain
// validator sees them.
func intRating(n json.Number) (int, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, &domain.ValidationError{Field: "rating", Reason: "must be an integer between 1 and 5"}
	}
	return int(v), nil
}

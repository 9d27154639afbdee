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

// UserHandler handles user registration and management.
type UserHandler struct {
	users   *service.UserService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, m *metrics.Metrics, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		metrics: m,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// RegisterPublicRoutes registers the routes that need no token.
func (h *UserHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/users/", h.handleCreate)
	r.Get("/users/", h.handleList)
	r.Get("/users/{id}", h.handleGet)
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (h *UserHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Put("/users/{id}", h.handleUpdate)
	r.Delete("/users/{id}", h.handleDelete)
}

type createUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.EntitiesCreated.WithLabelValues("user").Inc()
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

// handleUpdate lets a user modify their own account; admins can modify
// anyone. Only admins may toggle the admin flag, so it is not part of the
// request shape at all.
func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !canManageUser(r, id) {
		writeError(w, auth.ErrForbidden)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, domain.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !canManageUser(r, id) {
		writeError(w, auth.ErrForbidden)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// canManageUser reports whether the caller is the user themselves or an admin.
func canManageUser(r *http.Request, userID string) bool {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return false
	}
	return identity.IsAdmin || identity.UserID == userID
}

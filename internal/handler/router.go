// Package handler provides the HTTP API for Estancia.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/auth"
	"github.com/solera-labs/estancia/internal/metrics"
	"github.com/solera-labs/estancia/internal/service"
)

// Router assembles the API handlers under /api/v1.
type Router struct {
	facade  *service.Facade
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	Facade  *service.Facade
	Tokens  *auth.TokenManager
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		facade:  cfg.Facade,
		tokens:  cfg.Tokens,
		metrics: cfg.Metrics,
		logger:  cfg.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	authHandler := NewAuthHandler(rt.facade.Users, rt.tokens, rt.logger)
	userHandler := NewUserHandler(rt.facade.Users, rt.metrics, rt.logger)
	amenityHandler := NewAmenityHandler(rt.facade.Amenities, rt.metrics, rt.logger)
	placeHandler := NewPlaceHandler(rt.facade.Places, rt.facade.Reviews, rt.metrics, rt.logger)
	reviewHandler := NewReviewHandler(rt.facade.Reviews, rt.metrics, rt.logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(rt.metrics.Middleware)

	r.Get("/health", rt.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface: login, registration, catalogue reads.
		authHandler.RegisterRoutes(r)
		userHandler.RegisterPublicRoutes(r)
		amenityHandler.RegisterPublicRoutes(r)
		placeHandler.RegisterPublicRoutes(r)
		reviewHandler.RegisterPublicRoutes(r)

		// Token-bearing surface.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(rt.tokens))

			userHandler.RegisterProtectedRoutes(r)
			placeHandler.RegisterProtectedRoutes(r)
			reviewHandler.RegisterProtectedRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				amenityHandler.RegisterAdminRoutes(r)
			})
		})
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

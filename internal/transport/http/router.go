package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"skineedipping/internal/handler"
	"skineedipping/internal/httputil"
	"skineedipping/internal/metrics"
	"skineedipping/internal/session"
	authmw "skineedipping/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	DiscoverHandler *handler.DiscoverHandler
	BookmarkHandler *handler.BookmarkHandler
	ProfileHandler  *handler.ProfileHandler
	Sessions        session.Store
	Metrics         *metrics.Collector
	Gatherer        prometheus.Gatherer
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Browser-facing logout link
	r.Get("/logout", cfg.AuthHandler.LogoutRedirect)

	// Discover and product detail render for everyone; a session only
	// adds bookmark annotation.
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalSession(cfg.Sessions))

		r.Get("/discover", cfg.DiscoverHandler.Discover)
		r.Get("/products/{productID}", cfg.DiscoverHandler.Product)
		r.Get("/users/{userID}", cfg.ProfileHandler.GetUser)
	})

	// Protected routes - require a valid session
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireSession(cfg.Sessions))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Post("/bookmarks/{productID}", cfg.BookmarkHandler.Toggle)
		r.Get("/me/bookmarks", cfg.BookmarkHandler.List)

		r.Get("/me/profile", cfg.ProfileHandler.GetMine)
		r.Put("/me/profile", cfg.ProfileHandler.UpdateDescription)
		r.Post("/me/profile/picture", cfg.ProfileHandler.UpdatePicture)
	})

	return r
}

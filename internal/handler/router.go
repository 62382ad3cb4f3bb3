package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/observability"
)

// Router wires the Chronicle HTTP API.
type Router struct {
	loginHandler   *LoginHandler
	userHandler    *UserHandler
	blogHandler    *BlogHandler
	authMiddleware *auth.Middleware
	errors         *ErrorWriter
	metricsEnabled bool
	metricsPath    string
	logger         zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	LoginHandler   *LoginHandler
	UserHandler    *UserHandler
	BlogHandler    *BlogHandler
	AuthMiddleware *auth.Middleware
	ErrorWriter    *ErrorWriter
	MetricsEnabled bool
	MetricsPath    string
	Logger         zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	metricsPath := config.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &Router{
		loginHandler:   config.LoginHandler,
		userHandler:    config.UserHandler,
		blogHandler:    config.BlogHandler,
		authMiddleware: config.AuthMiddleware,
		errors:         config.ErrorWriter,
		metricsEnabled: config.MetricsEnabled,
		metricsPath:    metricsPath,
		logger:         config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(observability.RequestLogger(rt.logger))
	r.Use(observability.MetricsMiddleware)
	// Every request carries its candidate token through the context;
	// only protected routes act on it.
	r.Use(rt.authMiddleware.TokenExtractor)

	r.Get("/healthz", rt.handleHealth)
	if rt.metricsEnabled {
		r.Method(http.MethodGet, rt.metricsPath, promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", rt.loginHandler.Login)

		r.Get("/users", rt.userHandler.List)
		r.Post("/users", rt.userHandler.Create)

		r.Get("/blogs", rt.blogHandler.List)
		r.Get("/blogs/{id}", rt.blogHandler.Get)

		// Mutations require a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireToken)
			r.Post("/blogs", rt.blogHandler.Create)
			r.Put("/blogs/{id}", rt.blogHandler.Update)
			r.Delete("/blogs/{id}", rt.blogHandler.Delete)
			r.Post("/blogs/{id}/comments", rt.blogHandler.AddComment)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Unknown endpoint"})
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

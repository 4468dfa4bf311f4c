package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/landing-leads/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/landing-leads/internal/http/middleware"
	"github.com/wolfman30/landing-leads/internal/leads"
	"github.com/wolfman30/landing-leads/internal/ratelimit"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	LeadsHandler     *leads.Handler
	AdminAuth        *httpmiddleware.BasicAuthenticator
	AdminAuthHandler *handlers.AdminAuthHandler
	// AdminLimiter throttles every /admin request per client. Optional.
	AdminLimiter       ratelimit.Limiter
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		public.Get("/leads", cfg.LeadsHandler.HealthCheck)
		public.Post("/leads", cfg.LeadsHandler.CreateLead)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes (HTTP Basic auth)
	r.Route("/admin", func(admin chi.Router) {
		if cfg.AdminLimiter != nil {
			admin.Use(httpmiddleware.RateLimit(cfg.AdminLimiter, cfg.Logger))
		}
		if cfg.AdminAuthHandler != nil {
			admin.Get("/auth", cfg.AdminAuthHandler.Status)
			admin.Post("/auth", cfg.AdminAuthHandler.Status)
		}
		admin.Group(func(protected chi.Router) {
			protected.Use(httpmiddleware.RequireBasicAuth(cfg.AdminAuth))
			protected.Get("/leads", cfg.LeadsHandler.ListLeads)
			protected.Get("/export", cfg.LeadsHandler.ExportLeads)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Package router wires the storefront endpoints onto a Chi router.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chesser-academy/storefront/internal/http/handlers"
	httpmiddleware "github.com/chesser-academy/storefront/internal/http/middleware"
	"github.com/chesser-academy/storefront/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Storefront         *handlers.Handler
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
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Visitor-scoped storefront routes
	r.Group(func(store chi.Router) {
		store.Use(httpmiddleware.Visitor)

		store.Route("/api", func(api chi.Router) {
			api.Get("/services", cfg.Storefront.ListServices)

			api.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Storefront.GetCart)
				r.Post("/items", cfg.Storefront.AddCartItem)
				r.Delete("/items/{uniqueID}", cfg.Storefront.RemoveCartItem)
			})

			api.Route("/selection", func(r chi.Router) {
				r.Get("/", cfg.Storefront.GetSelection)
				r.Post("/open", cfg.Storefront.OpenSelection)
				r.Post("/cancel", cfg.Storefront.CancelSelection)
				r.Post("/days", cfg.Storefront.ToggleSelectionDay)
				r.Post("/times", cfg.Storefront.SetSelectionTime)
				r.Post("/confirm", cfg.Storefront.ConfirmSelection)
			})

			api.Route("/session", func(r chi.Router) {
				r.Get("/", cfg.Storefront.GetSession)
				r.Post("/login", cfg.Storefront.Login)
				r.Post("/register", cfg.Storefront.Register)
				r.Post("/logout", cfg.Storefront.Logout)
			})

			api.Route("/checkout", func(r chi.Router) {
				r.Get("/", cfg.Storefront.GetCheckout)
				r.Post("/submit", cfg.Storefront.SubmitCheckout)
			})

			api.Get("/views", cfg.Storefront.GetViews)
		})

		store.Get("/ws/views", cfg.Storefront.StreamViews)
	})

	return r
}

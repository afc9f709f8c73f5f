package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the handlers and settings the router is built from.
type RouterConfig struct {
	Dishes   *MenuHandler
	Drinks   *MenuHandler
	Sides    *MenuHandler
	Orders   *OrderHandler
	Settings *SettingsHandler
	Vapi     *VapiHandler
	Health   *HealthHandler

	WebhookSecret  string
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter wires every endpoint behind the shared middleware stack.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// The voice platform calls the webhooks cross-origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.Health.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/dishes", cfg.Dishes.Routes)
		r.Route("/drinks", cfg.Drinks.Routes)
		r.Route("/sides", cfg.Sides.Routes)
		r.Route("/orders", cfg.Orders.Routes)

		r.Get("/settings", cfg.Settings.GetSettings)
		r.Post("/settings", cfg.Settings.SaveSettings)

		r.Route("/vapi", func(r chi.Router) {
			r.With(middleware.BearerAuth(cfg.WebhookSecret, cfg.Vapi.Unauthorized)).
				Post("/create-order", cfg.Vapi.CreateOrder)
			r.Post("/menu", cfg.Vapi.Menu)
			r.Get("/menu", cfg.Vapi.MenuPreview)
			r.Get("/config", cfg.Vapi.Config)
		})
	})

	return r
}

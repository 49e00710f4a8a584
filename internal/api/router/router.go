package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/naturesvirtue-bot/internal/channels/whatsapp"
	"github.com/wolfman30/naturesvirtue-bot/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/naturesvirtue-bot/internal/http/middleware"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

const (
	adminRatePerSecond = 5
	adminBurst         = 20
)

// Config holds router configuration
type Config struct {
	Logger        *logging.Logger
	Webhook       *whatsapp.WebhookHandler
	Conversations *handlers.ConversationsHandler
	Health        http.Handler
	Dashboard     http.Handler
	// MetricsHandler is optional; nil leaves /metrics unmounted.
	MetricsHandler http.Handler
	// AdminAuthSecret enables HS256 bearer auth on /conversations when set.
	AdminAuthSecret string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		if cfg.Dashboard != nil {
			public.Get("/", cfg.Dashboard.ServeHTTP)
		}
		if cfg.Health != nil {
			public.Get("/health", cfg.Health.ServeHTTP)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Webhook != nil {
			public.Get("/webhook", cfg.Webhook.HandleVerification)
			public.Post("/webhook", cfg.Webhook.HandleInbound)
		}
	})

	if cfg.Conversations != nil {
		r.Route("/conversations", func(admin chi.Router) {
			admin.Use(httpmiddleware.RateLimit(adminRatePerSecond, adminBurst))
			if cfg.AdminAuthSecret != "" {
				admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			}
			admin.Get("/", cfg.Conversations.List)
			admin.Delete("/{phone}", cfg.Conversations.Delete)
		})
	}

	return r
}

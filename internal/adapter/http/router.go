package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hogar/gastos/internal/adapter/http/handler"
	"github.com/hogar/gastos/internal/adapter/http/middleware"
	"github.com/hogar/gastos/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ExpenseHandler   *handler.ExpenseHandler
	ShareHandler     *handler.ShareHandler
	MemberHandler    *handler.MemberHandler
	CategoryHandler  *handler.CategoryHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Logging          *middleware.LoggingMiddleware
	Metrics          *middleware.MetricsMiddleware
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)

	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Members and categories
		r.Get("/members", cfg.MemberHandler.List)
		r.Get("/categories", cfg.CategoryHandler.List)

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Create)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.Get("/{year}/{month}", cfg.ExpenseHandler.ListByMonth)
			r.Put("/{id}", cfg.ExpenseHandler.Update)
			r.Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		// Monthly shares
		r.Route("/shares/{year}/{month}", func(r chi.Router) {
			r.Get("/", cfg.ShareHandler.Get)
			r.Post("/recalculate", cfg.ShareHandler.Recalculate)
			r.Post("/settle", cfg.ShareHandler.Settle)
		})
	})

	return r
}

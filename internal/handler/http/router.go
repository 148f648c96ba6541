package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leonardoazeredo/ecomm-poc/internal/service"
	"github.com/leonardoazeredo/ecomm-poc/internal/session"
	"github.com/leonardoazeredo/ecomm-poc/pkg/health"
	"github.com/leonardoazeredo/ecomm-poc/pkg/middleware"
)

// catalogPageMaxAge is the browser cache window for catalog pages, which are
// identical for every visitor.
const catalogPageMaxAge = 60

// NewRouter creates a chi router with the storefront pages and cart actions.
func NewRouter(
	pages *PageHandler,
	cartService *service.CartService,
	sessions *session.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger, session.CookieName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Catalog pages are shared across visitors and safe to cache briefly.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(catalogPageMaxAge))
		r.Get("/", pages.Home)
		r.Get("/products", pages.Products)
		r.Get("/products/{slug}", pages.ProductDetail)
	})

	// The cart page is keyed to the session cookie and must never be cached.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/cart", pages.Cart)
	})

	// Cart action endpoints
	cartHandler := NewCartHandler(cartService, sessions, logger)

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
	})

	r.NotFound(pages.NotFound)

	return r
}

package http

import (
	"net/http"
	"time"

	"github.com/anandology/stringart.in/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Service            OrderService
	Logger             *zap.Logger
	Metrics            *metrics.Metrics
	Gatherer           prometheus.Gatherer
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	CORSAllowedOrigins []string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewRouter serves every route at the root and again under /api, which is
// where the storefront calls them.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = 1 << 20 // 1MB
	}

	checkoutHandler := NewCheckoutHandler(cfg.Service, cfg.RequestTimeout)
	ordersHandler := NewOrdersHandler(cfg.Service, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDHeader)
	r.Use(RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))

	routes := func(r chi.Router) {
		r.Get("/health", healthHandler(cfg.Clock))
		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/orders/{orderNumber}", ordersHandler.GetOrder)
	}
	routes(r)
	r.Route("/api", routes)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer))
	}

	return otelhttp.NewHandler(r, "stringart")
}

func healthHandler(clock func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponseDTO{
			Status:    "healthy",
			Timestamp: clock().UTC().Format(time.RFC3339),
		})
	}
}

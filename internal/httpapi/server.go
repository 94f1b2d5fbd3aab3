package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	middleware "github.com/tejusbharadwaj/climatewidget/internal/httpapi/middlewares"
	"github.com/tejusbharadwaj/climatewidget/internal/metrics"
	"github.com/tejusbharadwaj/climatewidget/internal/page"
)

// ServiceName is reported by the health-check endpoint.
const ServiceName = "camera-dashboard"

// ServerConfig holds configuration options for the HTTP server
type ServerConfig struct {
	Addr           string
	RateLimit      float64 // Requests per second
	RateLimitBurst int     // Maximum burst size for rate limiting
}

// DefaultServerConfig returns a ServerConfig with sensible defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8000",
		RateLimit:      5.0,
		RateLimitBurst: 10,
	}
}

// Deps are the collaborators the routes serve from.
type Deps struct {
	Page     *page.Page
	Upstream RawFetcher
	Stream   *StreamController // nil disables /v1/stream
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *logrus.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NewRouter builds the chi router with all middleware.
func NewRouter(cfg ServerConfig, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimiddleware.Recoverer,
		middleware.ContextMiddleware,              // Add request ID first
		middleware.LoggingMiddleware(deps.Logger), // Log all requests (with request ID)
	)
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics.Requests, deps.Metrics.Latency))
	}

	var rejected prometheus.Counter
	if deps.Metrics != nil {
		rejected = deps.Metrics.RateLimited
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	r.Get("/", handleIndex(deps.Page, deps.Logger))
	r.Get("/health-check", handleHealthCheck)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitingMiddleware(limiter, rejected))
		r.Get("/v1/climate/latest", NewClimateController(deps.Upstream, deps.Logger).Latest)
	})
	if deps.Stream != nil {
		r.Route("/v1/stream", func(r chi.Router) {
			r.Get("/ws", deps.Stream.Relay)
			r.Get("/status", deps.Stream.Status)
		})
	}
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// GET /
func handleIndex(p *page.Page, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := p.Render(w); err != nil {
			logger.WithError(err).Error("Failed to render page")
		}
	}
}

// GET /health-check
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: ServiceName})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

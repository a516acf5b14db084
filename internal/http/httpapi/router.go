package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docforge/internal/http/handlers"
	"docforge/internal/infra/geoip"
	"docforge/internal/middleware"
)

// NewRouter wires the API surface: batch submission, artifact download,
// health, and Prometheus metrics.
func NewRouter(app *handlers.App, resolver geoip.CountryResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Log),
	)
	if len(app.Cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(app.Cfg.CORSAllowedOrigins))
	}

	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}
	r.Use(middleware.I18N(app.Cfg.LocaleFallback, lookup))
	if app.Cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(app.Cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/batches", app.SubmitBatch)
	r.Get("/v1/documents/{name}", app.DownloadDocument)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

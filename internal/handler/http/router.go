package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glowmart/storefront/pkg/health"
	"github.com/glowmart/storefront/pkg/middleware"
)

// cache lifetime for public read endpoints, in seconds
const readCacheMaxAge = 60

// NewRouter assembles the HTTP surface: asset CRUD under /api/v1, health
// probes, and Prometheus metrics.
func NewRouter(
	assets *AssetHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("storefront_assets"))
	r.Use(middleware.CORS(corsCfg))

	r.Get("/healthz", healthHandler.LivenessHandler())
	r.Get("/readyz", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/assets/{kind}", func(r chi.Router) {
		r.Post("/", assets.CreateAsset)
		r.Put("/{id}", assets.UpdateAsset)
		r.Delete("/{id}", assets.DeleteAsset)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(readCacheMaxAge))
			r.Get("/", assets.ListAssets)
			r.Get("/{id}", assets.GetAsset)
			r.Get("/slug/{slug}", assets.GetAssetBySlug)
		})
	})

	return r
}

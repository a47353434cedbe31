package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"periodical/internal/common/pagination"
	hhttp "periodical/internal/handler/http"
	hcatalog "periodical/internal/handler/http/catalog"
	"periodical/internal/handler/http/requestid"
	"periodical/internal/observability/tracing"
	"periodical/internal/usecase/catalog"
	"periodical/pkg/config"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 1 << 20

// newHandler builds the routed and wrapped API handler.
func newHandler(svc *catalog.Service, cfg *config.APIConfig, logger *slog.Logger, ready *atomic.Bool) (http.Handler, error) {
	origins, err := hhttp.ParseOrigins(cfg.CORSAllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS: %w", err)
	}

	mux := http.NewServeMux()

	hcatalog.Register(mux, svc, hcatalog.Config{
		Pagination: pagination.LoadFromEnv(),
		AdminReset: cfg.AdminResetEnabled,
		Logger:     logger,
	})
	if cfg.AdminResetEnabled {
		logger.Warn("admin reset endpoint enabled")
	}

	mux.Handle("GET /health", &hhttp.HealthHandler{
		Catalog: svc.Registry(),
		Version: cfg.Version,
		Started: time.Now(),
		Ready:   ready,
	})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	limiter := hhttp.NewWriteLimiter(cfg.WriteRateLimit, cfg.WriteRateBurst, cfg.TrustedProxies...)
	if len(cfg.TrustedProxies) > 0 {
		logger.Info("rate limiting: forwarded headers trusted from proxies",
			slog.Int("trusted_proxies_count", len(cfg.TrustedProxies)))
	}

	// Order: outermost first.
	return hhttp.Chain(mux,
		hhttp.Recover(logger),
		hhttp.CORS(hhttp.DefaultCORSConfig(origins), logger),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		hhttp.InputValidation(maxRequestBody),
		limiter.Limit,
	), nil
}

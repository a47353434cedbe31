// Package http provides the HTTP server plumbing of the catalog API:
// middleware, Prometheus metrics and health endpoints. Resource handlers
// live in the catalog subpackage.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"periodical/internal/domain/entity"
)

// StatsSource reports the catalog's entity counts.
type StatsSource interface {
	Stats() entity.Stats
	Generation() uint64
}

// HealthResponse represents the JSON response of the health endpoint.
type HealthResponse struct {
	Status     string       `json:"status"`    // "healthy" or "starting"
	Timestamp  string       `json:"timestamp"` // RFC 3339, UTC
	Version    string       `json:"version"`
	Uptime     string       `json:"uptime"`
	Generation uint64       `json:"generation"`
	Entities   EntityCounts `json:"entities"`
}

// EntityCounts is the JSON form of entity.Stats.
type EntityCounts struct {
	Authors   int `json:"authors"`
	Magazines int `json:"magazines"`
	Articles  int `json:"articles"`
}

// HealthHandler reports version, uptime and catalog size.
// It answers 503 until Ready is set, which cmd/api does once any seed file
// has been applied.
type HealthHandler struct {
	Catalog StatsSource
	Version string
	Started time.Time
	Ready   *atomic.Bool
}

// ServeHTTP writes a HealthResponse.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	stats := h.Catalog.Stats()

	status, code := "healthy", http.StatusOK
	if h.Ready != nil && !h.Ready.Load() {
		status, code = "starting", http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Version:    h.Version,
		Uptime:     time.Since(h.Started).Round(time.Second).String(),
		Generation: h.Catalog.Generation(),
		Entities: EntityCounts{
			Authors:   stats.Authors,
			Magazines: stats.Magazines,
			Articles:  stats.Articles,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// LiveHandler answers liveness checks. It always returns 200 while the
// process can serve requests.
type LiveHandler struct{}

// ServeHTTP writes "alive".
func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Error("live: failed to write response", slog.Any("error", err))
	}
}

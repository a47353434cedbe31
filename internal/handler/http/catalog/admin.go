package catalog

import (
	"log/slog"
	"net/http"

	"periodical/internal/observability/logging"
	catalogUC "periodical/internal/usecase/catalog"
)

// ResetHandler handles POST /admin/reset by dropping every entity.
type ResetHandler struct {
	Svc    *catalogUC.Service
	Logger *slog.Logger
}

func (h ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	before := h.Svc.Stats(r.Context())
	h.Svc.Reset(r.Context())
	logging.WithRequestID(r.Context(), h.Logger).Warn("catalog reset",
		slog.Int("authors", before.Authors),
		slog.Int("magazines", before.Magazines),
		slog.Int("articles", before.Articles))
	w.WriteHeader(http.StatusNoContent)
}

package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"periodical/internal/common/pagination"
	"periodical/internal/handler/http/respond"
	catalogUC "periodical/internal/usecase/catalog"
)

// Config holds the options of Register.
type Config struct {
	Pagination pagination.Config
	// AdminReset enables POST /admin/reset.
	AdminReset bool
	Logger     *slog.Logger
}

// Register registers every catalog route with mux.
func Register(mux *http.ServeMux, svc *catalogUC.Service, cfg Config) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	pg := cfg.Pagination
	if pg.MaxLimit <= 0 {
		pg = pagination.DefaultConfig()
	}

	mux.Handle("POST /authors", CreateAuthorHandler{svc})
	mux.Handle("GET /authors", ListAuthorsHandler{Svc: svc, PaginationCfg: pg})
	mux.Handle("GET /authors/{id}", GetAuthorHandler{svc})
	mux.Handle("PATCH /authors/{id}", RenameAuthorHandler{svc})
	mux.Handle("GET /authors/{id}/articles", AuthorArticlesHandler{svc})
	mux.Handle("POST /authors/{id}/articles", AddAuthorArticleHandler{svc})
	mux.Handle("GET /authors/{id}/magazines", AuthorMagazinesHandler{svc})
	mux.Handle("GET /authors/{id}/topic-areas", AuthorTopicAreasHandler{svc})

	mux.Handle("POST /magazines", CreateMagazineHandler{svc})
	mux.Handle("GET /magazines", ListMagazinesHandler{Svc: svc, PaginationCfg: pg})
	mux.Handle("GET /magazines/{id}", GetMagazineHandler{svc})
	mux.Handle("PATCH /magazines/{id}", UpdateMagazineHandler{svc})
	mux.Handle("GET /magazines/{id}/articles", MagazineArticlesHandler{svc})
	mux.Handle("GET /magazines/{id}/contributors", MagazineContributorsHandler{svc})
	mux.Handle("GET /magazines/{id}/article-titles", MagazineArticleTitlesHandler{svc})
	mux.Handle("GET /magazines/{id}/contributing-authors", MagazineContributingAuthorsHandler{svc})

	mux.Handle("POST /articles", CreateArticleHandler{svc})
	mux.Handle("GET /articles", ListArticlesHandler{Svc: svc, PaginationCfg: pg})
	mux.Handle("GET /articles/{id}", GetArticleHandler{svc})
	mux.Handle("PATCH /articles/{id}", RetitleArticleHandler{svc})

	if cfg.AdminReset {
		mux.Handle("POST /admin/reset", ResetHandler{Svc: svc, Logger: cfg.Logger})
	}
}

// writeError maps err to a JSON error response.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBadRequest) {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.DomainError(w, err)
}

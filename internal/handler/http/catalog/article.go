package catalog

import (
	"fmt"
	"net/http"

	"periodical/internal/common/pagination"
	"periodical/internal/handler/http/respond"
	catalogUC "periodical/internal/usecase/catalog"
)

// CreateArticleHandler handles POST /articles.
type CreateArticleHandler struct{ Svc *catalogUC.Service }

func (h CreateArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuthorID   string `json:"author_id"`
		MagazineID string `json:"magazine_id"`
		Title      string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	authorID, err := bodyID("author_id", req.AuthorID)
	if err != nil {
		writeError(w, err)
		return
	}
	magazineID, err := bodyID("magazine_id", req.MagazineID)
	if err != nil {
		writeError(w, err)
		return
	}

	art, err := h.Svc.AddArticle(r.Context(), catalogUC.AddArticleInput{
		AuthorID:   authorID,
		MagazineID: magazineID,
		Title:      req.Title,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toArticleDTO(art))
}

// ListArticlesHandler handles GET /articles?page&limit.
type ListArticlesHandler struct {
	Svc           *catalogUC.Service
	PaginationCfg pagination.Config
}

func (h ListArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	page := h.Svc.ListArticles(r.Context(), params)
	respond.JSON(w, http.StatusOK, pagination.Response[ArticleDTO]{
		Data:       mapDTO(page.Items, toArticleDTO),
		Pagination: page.Pagination,
	})
}

// GetArticleHandler handles GET /articles/{id}.
type GetArticleHandler struct{ Svc *catalogUC.Service }

func (h GetArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	art, err := h.Svc.GetArticle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toArticleDTO(art))
}

// RetitleArticleHandler handles PATCH /articles/{id}.
type RetitleArticleHandler struct{ Svc *catalogUC.Service }

func (h RetitleArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Title *string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Title == nil {
		writeError(w, fmt.Errorf("%w: title is required", errBadRequest))
		return
	}
	art, err := h.Svc.RetitleArticle(r.Context(), id, *req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toArticleDTO(art))
}

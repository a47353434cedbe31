package catalog

import (
	"net/http"

	"periodical/internal/common/pagination"
	"periodical/internal/handler/http/respond"
	catalogUC "periodical/internal/usecase/catalog"
)

// CreateAuthorHandler handles POST /authors.
type CreateAuthorHandler struct{ Svc *catalogUC.Service }

func (h CreateAuthorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	a, err := h.Svc.CreateAuthor(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toAuthorDTO(a))
}

// ListAuthorsHandler handles GET /authors?page&limit.
type ListAuthorsHandler struct {
	Svc           *catalogUC.Service
	PaginationCfg pagination.Config
}

func (h ListAuthorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	page := h.Svc.ListAuthors(r.Context(), params)
	respond.JSON(w, http.StatusOK, pagination.Response[AuthorDTO]{
		Data:       mapDTO(page.Items, toAuthorDTO),
		Pagination: page.Pagination,
	})
}

// GetAuthorHandler handles GET /authors/{id}.
type GetAuthorHandler struct{ Svc *catalogUC.Service }

func (h GetAuthorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := h.Svc.GetAuthor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toAuthorDTO(a))
}

// RenameAuthorHandler handles PATCH /authors/{id}. Author names are
// immutable, so an existing author always yields 409 Conflict.
type RenameAuthorHandler struct{ Svc *catalogUC.Service }

func (h RenameAuthorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	// RenameAuthor only returns nil if author names ever become mutable.
	if err := h.Svc.RenameAuthor(r.Context(), id, req.Name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuthorArticlesHandler handles GET /authors/{id}/articles.
type AuthorArticlesHandler struct{ Svc *catalogUC.Service }

func (h AuthorArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	arts, err := h.Svc.AuthorArticles(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]ArticleDTO{"articles": mapDTO(arts, toArticleDTO)})
}

// AddAuthorArticleHandler handles POST /authors/{id}/articles.
type AddAuthorArticleHandler struct{ Svc *catalogUC.Service }

func (h AddAuthorArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		MagazineID string `json:"magazine_id"`
		Title      string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
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

// AuthorMagazinesHandler handles GET /authors/{id}/magazines.
type AuthorMagazinesHandler struct{ Svc *catalogUC.Service }

func (h AuthorMagazinesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mags, err := h.Svc.AuthorMagazines(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]MagazineDTO{"magazines": mapDTO(mags, toMagazineDTO)})
}

// AuthorTopicAreasHandler handles GET /authors/{id}/topic-areas.
// "topic_areas" is null when the author has written for no magazine.
type AuthorTopicAreasHandler struct{ Svc *catalogUC.Service }

func (h AuthorTopicAreasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	areas, ok, err := h.Svc.AuthorTopicAreas(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		areas = nil
	}
	respond.JSON(w, http.StatusOK, map[string][]string{"topic_areas": areas})
}

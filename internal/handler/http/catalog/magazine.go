package catalog

import (
	"net/http"

	"periodical/internal/common/pagination"
	"periodical/internal/handler/http/respond"
	catalogUC "periodical/internal/usecase/catalog"
)

// CreateMagazineHandler handles POST /magazines.
type CreateMagazineHandler struct{ Svc *catalogUC.Service }

func (h CreateMagazineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Svc.CreateMagazine(r.Context(), req.Name, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toMagazineDTO(m))
}

// ListMagazinesHandler handles GET /magazines?page&limit.
type ListMagazinesHandler struct {
	Svc           *catalogUC.Service
	PaginationCfg pagination.Config
}

func (h ListMagazinesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	page := h.Svc.ListMagazines(r.Context(), params)
	respond.JSON(w, http.StatusOK, pagination.Response[MagazineDTO]{
		Data:       mapDTO(page.Items, toMagazineDTO),
		Pagination: page.Pagination,
	})
}

// GetMagazineHandler handles GET /magazines/{id}.
type GetMagazineHandler struct{ Svc *catalogUC.Service }

func (h GetMagazineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Svc.GetMagazine(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toMagazineDTO(m))
}

// UpdateMagazineHandler handles PATCH /magazines/{id}.
// Omitted fields are left unchanged; if any given field is invalid nothing
// is changed.
type UpdateMagazineHandler struct{ Svc *catalogUC.Service }

func (h UpdateMagazineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Category *string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Svc.UpdateMagazine(r.Context(), catalogUC.UpdateMagazineInput{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toMagazineDTO(m))
}

// MagazineArticlesHandler handles GET /magazines/{id}/articles.
type MagazineArticlesHandler struct{ Svc *catalogUC.Service }

func (h MagazineArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	arts, err := h.Svc.MagazineArticles(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]ArticleDTO{"articles": mapDTO(arts, toArticleDTO)})
}

// MagazineContributorsHandler handles GET /magazines/{id}/contributors.
type MagazineContributorsHandler struct{ Svc *catalogUC.Service }

func (h MagazineContributorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	authors, err := h.Svc.MagazineContributors(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]AuthorDTO{"contributors": mapDTO(authors, toAuthorDTO)})
}

// MagazineArticleTitlesHandler handles GET /magazines/{id}/article-titles.
// "article_titles" is null when the magazine has no articles.
type MagazineArticleTitlesHandler struct{ Svc *catalogUC.Service }

func (h MagazineArticleTitlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	titles, ok, err := h.Svc.MagazineArticleTitles(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		titles = nil
	}
	respond.JSON(w, http.StatusOK, map[string][]string{"article_titles": titles})
}

// MagazineContributingAuthorsHandler handles GET /magazines/{id}/contributing-authors.
// "contributing_authors" is null when no author has more than
// entity.ContributorThreshold articles in the magazine.
type MagazineContributingAuthorsHandler struct{ Svc *catalogUC.Service }

func (h MagazineContributingAuthorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	authors, ok, err := h.Svc.MagazineContributingAuthors(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	var dtos []AuthorDTO
	if ok {
		dtos = mapDTO(authors, toAuthorDTO)
	}
	respond.JSON(w, http.StatusOK, map[string][]AuthorDTO{"contributing_authors": dtos})
}

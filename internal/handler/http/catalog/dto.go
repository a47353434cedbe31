// Package catalog provides the JSON endpoints for authors, magazines and
// articles. Handlers decode requests, call the catalog use cases and map
// typed catalog errors to HTTP status codes.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"periodical/internal/domain/entity"
)

// AuthorDTO represents the JSON structure for author data transfer.
type AuthorDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MagazineDTO represents the JSON structure for magazine data transfer.
type MagazineDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleDTO represents the JSON structure for article data transfer.
type ArticleDTO struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	AuthorID   uuid.UUID `json:"author_id"`
	MagazineID uuid.UUID `json:"magazine_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAuthorDTO(a *entity.Author) AuthorDTO {
	return AuthorDTO{ID: a.ID(), Name: a.Name(), CreatedAt: a.CreatedAt()}
}

func toMagazineDTO(m *entity.Magazine) MagazineDTO {
	return MagazineDTO{ID: m.ID(), Name: m.Name(), Category: m.Category(), CreatedAt: m.CreatedAt()}
}

func toArticleDTO(a *entity.Article) ArticleDTO {
	return ArticleDTO{
		ID:         a.ID(),
		Title:      a.Title(),
		AuthorID:   a.Author().ID(),
		MagazineID: a.Magazine().ID(),
		CreatedAt:  a.CreatedAt(),
	}
}

// mapDTO converts es with fn. The result is never nil so that empty
// collections encode as [] rather than null.
func mapDTO[E, D any](es []E, fn func(E) D) []D {
	out := make([]D, len(es))
	for i, e := range es {
		out[i] = fn(e)
	}
	return out
}

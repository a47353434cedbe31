package seed

import (
	"context"
	"fmt"
	"log/slog"

	"periodical/internal/domain/entity"
	"periodical/internal/usecase/catalog"
)

// Result maps the document's keys to the entities created for them.
type Result struct {
	Magazines map[string]*entity.Magazine
	Authors   map[string]*entity.Author
	Articles  []*entity.Article
}

// Apply validates doc and creates its magazines, authors and articles
// through svc, in document order.
//
// Application stops at the first entity the catalog rejects. Entities created
// before that point stay in the catalog; the returned error names the
// offending document entry and wraps the catalog error.
func Apply(ctx context.Context, svc *catalog.Service, doc *Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Magazines: make(map[string]*entity.Magazine, len(doc.Magazines)),
		Authors:   make(map[string]*entity.Author, len(doc.Authors)),
		Articles:  make([]*entity.Article, 0, len(doc.Articles)),
	}

	for i, spec := range doc.Magazines {
		m, err := svc.CreateMagazine(ctx, spec.Name, spec.Category)
		if err != nil {
			return res, fmt.Errorf("magazines[%d] (%s): %w", i, spec.Key, err)
		}
		res.Magazines[spec.Key] = m
	}

	for i, spec := range doc.Authors {
		a, err := svc.CreateAuthor(ctx, spec.Name)
		if err != nil {
			return res, fmt.Errorf("authors[%d] (%s): %w", i, spec.Key, err)
		}
		res.Authors[spec.Key] = a
	}

	for i, spec := range doc.Articles {
		art, err := svc.AddArticle(ctx, catalog.AddArticleInput{
			AuthorID:   res.Authors[spec.Author].ID(),
			MagazineID: res.Magazines[spec.Magazine].ID(),
			Title:      spec.Title,
		})
		if err != nil {
			return res, fmt.Errorf("articles[%d]: %w", i, err)
		}
		res.Articles = append(res.Articles, art)
	}

	slog.Default().Debug("seed applied",
		slog.Int("magazines", len(res.Magazines)),
		slog.Int("authors", len(res.Authors)),
		slog.Int("articles", len(res.Articles)))
	return res, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"periodical/internal/common/pagination"
	"periodical/internal/domain/entity"
	"periodical/internal/observability/logging"
	"periodical/internal/observability/metrics"
	"periodical/internal/observability/tracing"
)

// AddArticleInput identifies the author, magazine and title of a new article.
type AddArticleInput struct {
	AuthorID   uuid.UUID
	MagazineID uuid.UUID
	Title      string
}

// UpdateMagazineInput represents the fields to change on a magazine.
// Fields with nil values will not be updated.
type UpdateMagazineInput struct {
	ID       uuid.UUID
	Name     *string
	Category *string
}

// Page is one page of a creation-ordered listing.
type Page[T any] struct {
	Items      []T
	Pagination pagination.Metadata
}

// Service provides the catalog use cases over a single registry.
type Service struct {
	reg    *entity.Registry
	cache  *QueryCache
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithQueryCache serves derived queries through c.
func WithQueryCache(c *QueryCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the logger used for mutation logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service over reg. Without options derived queries are
// computed on every call and logs are discarded.
func NewService(reg *entity.Registry, opts ...Option) *Service {
	s := &Service{
		reg:    reg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry the service operates on.
func (s *Service) Registry() *entity.Registry { return s.reg }

// ParseID parses a textual entity ID.
// Returns an error wrapping ErrInvalidID if s is not a UUID.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// writes

// CreateAuthor registers a new author.
func (s *Service) CreateAuthor(ctx context.Context, name string) (*entity.Author, error) {
	var a *entity.Author
	err := s.mutate(ctx, "create_author", func(ctx context.Context, span trace.Span) error {
		var err error
		a, err = s.reg.NewAuthor(name)
		if err != nil {
			return fmt.Errorf("create author: %w", err)
		}
		span.SetAttributes(attribute.String("author.id", a.ID().String()))
		return nil
	})
	return a, err
}

// RenameAuthor attempts to change an author's name. Author names are
// immutable, so for an existing author this always returns an error
// satisfying errors.Is(err, entity.ErrImmutableField).
func (s *Service) RenameAuthor(ctx context.Context, id uuid.UUID, name string) error {
	return s.mutate(ctx, "rename_author", func(ctx context.Context, span trace.Span) error {
		a, err := s.author(id)
		if err != nil {
			return err
		}
		if err := a.SetName(name); err != nil {
			return fmt.Errorf("rename author: %w", err)
		}
		return nil
	})
}

// CreateMagazine registers a new magazine.
func (s *Service) CreateMagazine(ctx context.Context, name, category string) (*entity.Magazine, error) {
	var m *entity.Magazine
	err := s.mutate(ctx, "create_magazine", func(ctx context.Context, span trace.Span) error {
		var err error
		m, err = s.reg.NewMagazine(name, category)
		if err != nil {
			return fmt.Errorf("create magazine: %w", err)
		}
		span.SetAttributes(attribute.String("magazine.id", m.ID().String()))
		return nil
	})
	return m, err
}

// UpdateMagazine applies the non-nil fields of in. Either every field is
// applied or, if any is invalid, none is.
func (s *Service) UpdateMagazine(ctx context.Context, in UpdateMagazineInput) (*entity.Magazine, error) {
	var m *entity.Magazine
	err := s.mutate(ctx, "update_magazine", func(ctx context.Context, span trace.Span) error {
		var err error
		m, err = s.magazine(in.ID)
		if err != nil {
			return err
		}
		if err := m.Update(entity.MagazinePatch{Name: in.Name, Category: in.Category}); err != nil {
			return fmt.Errorf("update magazine: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// AddArticle registers a new article by the given author in the given magazine.
// An ID naming an entity of another kind yields a *entity.TypeMismatchError.
func (s *Service) AddArticle(ctx context.Context, in AddArticleInput) (*entity.Article, error) {
	var art *entity.Article
	err := s.mutate(ctx, "add_article", func(ctx context.Context, span trace.Span) error {
		a, err := s.author(in.AuthorID)
		if err != nil {
			return err
		}
		m, err := s.magazine(in.MagazineID)
		if err != nil {
			return err
		}
		art, err = a.AddArticle(m, in.Title)
		if err != nil {
			return fmt.Errorf("add article: %w", err)
		}
		span.SetAttributes(attribute.String("article.id", art.ID().String()))
		return nil
	})
	return art, err
}

// RetitleArticle changes an article's title.
func (s *Service) RetitleArticle(ctx context.Context, id uuid.UUID, title string) (*entity.Article, error) {
	var art *entity.Article
	err := s.mutate(ctx, "retitle_article", func(ctx context.Context, span trace.Span) error {
		var err error
		art, err = s.article(id)
		if err != nil {
			return err
		}
		if err := art.SetTitle(title); err != nil {
			return fmt.Errorf("retitle article: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return art, nil
}

// Reset removes every entity and flushes the query cache.
func (s *Service) Reset(ctx context.Context) {
	_ = s.mutate(ctx, "reset", func(context.Context, trace.Span) error {
		s.reg.Reset()
		if s.cache != nil {
			s.cache.Flush()
		}
		return nil
	})
}

// mutate runs fn inside a span and records its outcome in metrics and logs.
func (s *Service) mutate(ctx context.Context, op string, fn func(context.Context, trace.Span) error) error {
	ctx, span := tracing.GetTracer().Start(ctx, "catalog."+op)
	defer span.End()

	logger := logging.WithRequestID(ctx, s.logger)
	err := fn(ctx, span)
	result := classify(err)
	metrics.RecordMutation(op, result)
	span.SetAttributes(attribute.String("catalog.result", result))

	if err != nil {
		tracing.RecordError(span, err)
		logger.Warn("catalog mutation rejected",
			slog.String("operation", op),
			slog.String("result", result),
			slog.Any("error", err))
		return err
	}

	stats := s.reg.Stats()
	metrics.UpdateEntityCounts(stats.Authors, stats.Magazines, stats.Articles)
	logger.Info("catalog mutation applied",
		slog.String("operation", op),
		slog.Uint64("generation", s.reg.Generation()))
	return nil
}

// classify maps an error to a metrics result label.
func classify(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, entity.ErrValidationFailed):
		return metrics.ResultValidationError
	case errors.Is(err, entity.ErrTypeMismatch):
		return metrics.ResultTypeMismatch
	case errors.Is(err, entity.ErrImmutableField):
		return metrics.ResultImmutableField
	case errors.Is(err, entity.ErrNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}

// lookups

func (s *Service) author(id uuid.UUID) (*entity.Author, error) {
	a, err := s.reg.Author(id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrAuthorNotFound, err)
	}
	return a, err
}

func (s *Service) magazine(id uuid.UUID) (*entity.Magazine, error) {
	m, err := s.reg.Magazine(id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrMagazineNotFound, err)
	}
	return m, err
}

func (s *Service) article(id uuid.UUID) (*entity.Article, error) {
	art, err := s.reg.Article(id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrArticleNotFound, err)
	}
	return art, err
}

// GetAuthor returns the author with the given ID.
// Returns ErrAuthorNotFound for unknown IDs and a *entity.TypeMismatchError
// when id names a magazine or an article.
func (s *Service) GetAuthor(_ context.Context, id uuid.UUID) (*entity.Author, error) {
	return s.author(id)
}

// GetMagazine returns the magazine with the given ID.
func (s *Service) GetMagazine(_ context.Context, id uuid.UUID) (*entity.Magazine, error) {
	return s.magazine(id)
}

// GetArticle returns the article with the given ID.
func (s *Service) GetArticle(_ context.Context, id uuid.UUID) (*entity.Article, error) {
	return s.article(id)
}

// ListAuthors returns one page of authors in creation order.
func (s *Service) ListAuthors(_ context.Context, p pagination.Params) Page[*entity.Author] {
	return page(s.reg.Authors(), p)
}

// ListMagazines returns one page of magazines in creation order.
func (s *Service) ListMagazines(_ context.Context, p pagination.Params) Page[*entity.Magazine] {
	return page(s.reg.Magazines(), p)
}

// ListArticles returns one page of articles in creation order.
func (s *Service) ListArticles(_ context.Context, p pagination.Params) Page[*entity.Article] {
	return page(s.reg.Articles(), p)
}

func page[T any](items []T, p pagination.Params) Page[T] {
	out, meta := pagination.Page(items, p.WithDefaults(pagination.DefaultConfig()))
	return Page[T]{Items: out, Pagination: meta}
}

// Stats returns the current entity counts.
func (s *Service) Stats(context.Context) entity.Stats {
	return s.reg.Stats()
}

// derived queries

// AuthorArticles returns the author's articles in creation order.
func (s *Service) AuthorArticles(ctx context.Context, id uuid.UUID) ([]*entity.Article, error) {
	a, err := s.author(id)
	if err != nil {
		return nil, err
	}
	r := query(ctx, s, "author_articles", id, func() queryResult[*entity.Article] {
		return queryResult[*entity.Article]{items: a.Articles(), ok: true}
	})
	return r.items, nil
}

// AuthorMagazines returns the distinct magazines the author has written for.
func (s *Service) AuthorMagazines(ctx context.Context, id uuid.UUID) ([]*entity.Magazine, error) {
	a, err := s.author(id)
	if err != nil {
		return nil, err
	}
	r := query(ctx, s, "author_magazines", id, func() queryResult[*entity.Magazine] {
		return queryResult[*entity.Magazine]{items: a.Magazines(), ok: true}
	})
	return r.items, nil
}

// AuthorTopicAreas returns the distinct categories of the author's magazines.
// The bool is false when the author has written for no magazine.
func (s *Service) AuthorTopicAreas(ctx context.Context, id uuid.UUID) ([]string, bool, error) {
	a, err := s.author(id)
	if err != nil {
		return nil, false, err
	}
	r := query(ctx, s, "author_topic_areas", id, func() queryResult[string] {
		areas, ok := a.TopicAreas()
		return queryResult[string]{items: areas, ok: ok}
	})
	return r.items, r.ok, nil
}

// MagazineArticles returns the magazine's articles in creation order.
func (s *Service) MagazineArticles(ctx context.Context, id uuid.UUID) ([]*entity.Article, error) {
	m, err := s.magazine(id)
	if err != nil {
		return nil, err
	}
	r := query(ctx, s, "magazine_articles", id, func() queryResult[*entity.Article] {
		return queryResult[*entity.Article]{items: m.Articles(), ok: true}
	})
	return r.items, nil
}

// MagazineContributors returns the distinct authors of the magazine's articles.
func (s *Service) MagazineContributors(ctx context.Context, id uuid.UUID) ([]*entity.Author, error) {
	m, err := s.magazine(id)
	if err != nil {
		return nil, err
	}
	r := query(ctx, s, "magazine_contributors", id, func() queryResult[*entity.Author] {
		return queryResult[*entity.Author]{items: m.Contributors(), ok: true}
	})
	return r.items, nil
}

// MagazineArticleTitles returns the titles of the magazine's articles.
// The bool is false when the magazine has no articles.
func (s *Service) MagazineArticleTitles(ctx context.Context, id uuid.UUID) ([]string, bool, error) {
	m, err := s.magazine(id)
	if err != nil {
		return nil, false, err
	}
	r := query(ctx, s, "magazine_article_titles", id, func() queryResult[string] {
		titles, ok := m.ArticleTitles()
		return queryResult[string]{items: titles, ok: ok}
	})
	return r.items, r.ok, nil
}

// MagazineContributingAuthors returns the authors with more than
// entity.ContributorThreshold articles in the magazine.
// The bool is false when no author qualifies.
func (s *Service) MagazineContributingAuthors(ctx context.Context, id uuid.UUID) ([]*entity.Author, bool, error) {
	m, err := s.magazine(id)
	if err != nil {
		return nil, false, err
	}
	r := query(ctx, s, "magazine_contributing_authors", id, func() queryResult[*entity.Author] {
		authors, ok := m.ContributingAuthors()
		return queryResult[*entity.Author]{items: authors, ok: ok}
	})
	return r.items, r.ok, nil
}

// query computes a derived query through the cache, timing the computation.
func query[T any](ctx context.Context, s *Service, name string, id uuid.UUID, compute func() queryResult[T]) queryResult[T] {
	_, span := tracing.GetTracer().Start(ctx, "catalog.query."+name,
		trace.WithAttributes(attribute.String("catalog.subject", id.String())))
	defer span.End()

	var key string
	if s.cache != nil {
		key = cacheKey(name, id, s.reg.Generation())
		if r, ok := cacheGet[T](s.cache, key); ok {
			metrics.RecordCacheLookup(true)
			span.SetAttributes(attribute.Bool("catalog.cache_hit", true))
			return r
		}
		metrics.RecordCacheLookup(false)
	}

	start := time.Now()
	r := compute()
	metrics.RecordQuery(name, time.Since(start))
	span.SetAttributes(attribute.Bool("catalog.cache_hit", false))

	if s.cache != nil {
		cacheSet(s.cache, key, r)
	}
	return r
}

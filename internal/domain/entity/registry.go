package entity

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry owns every author, magazine and article of one catalog.
//
// It keeps the entities in creation order and indexes each article under its
// author and its magazine at construction time; those indexes are the only
// relationship state, and every derived query is computed from them.
// A single RWMutex serialises writes, so a Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	now   func() time.Time
	newID func() uuid.UUID

	authors    []*Author
	magazines  []*Magazine
	articles   []*Article
	byID       map[uuid.UUID]Entity
	byAuthor   map[*Author][]*Article
	byMagazine map[*Magazine][]*Article
	generation uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the function used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator sets the function used to assign entity IDs.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(r *Registry) { r.newID = newID }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.clear()
	return r
}

func (r *Registry) clear() {
	r.authors = nil
	r.magazines = nil
	r.articles = nil
	r.byID = make(map[uuid.UUID]Entity)
	r.byAuthor = make(map[*Author][]*Article)
	r.byMagazine = make(map[*Magazine][]*Article)
}

// Reset removes every entity. Entities obtained before the reset are no longer
// registered and are rejected as article references.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear()
	r.generation++
}

// Generation returns a counter that increases on every successful mutation.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Stats holds entity counts.
type Stats struct {
	Authors   int
	Magazines int
	Articles  int
}

// Stats returns the number of registered entities of each kind.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Authors:   len(r.authors),
		Magazines: len(r.magazines),
		Articles:  len(r.articles),
	}
}

// NewAuthor registers a new author.
// Returns a *ValidationError if name is empty.
func (r *Registry) NewAuthor(name string) (*Author, error) {
	if err := AuthorName.Check(name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a := &Author{id: r.newID(), name: name, createdAt: r.now(), reg: r}
	r.authors = append(r.authors, a)
	r.byID[a.id] = a
	r.generation++
	return a, nil
}

// NewMagazine registers a new magazine.
// Returns a *ValidationError if name is not 2 to 16 characters long or
// category is blank.
func (r *Registry) NewMagazine(name, category string) (*Magazine, error) {
	if err := MagazineName.Check(name); err != nil {
		return nil, err
	}
	if err := MagazineCategory.Check(category); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := &Magazine{id: r.newID(), name: name, category: category, createdAt: r.now(), reg: r}
	r.magazines = append(r.magazines, m)
	r.byID[m.id] = m
	r.generation++
	return m, nil
}

// NewArticle registers an article written by author for magazine.
//
// The title is validated first, then both references. A *ValidationError or
// *TypeMismatchError leaves the registry untouched; on success the article is
// appended to the author's index, the magazine's index and the global list
// under one write lock.
func (r *Registry) NewArticle(author *Author, magazine *Magazine, title string) (*Article, error) {
	if err := ArticleTitle.Check(title); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ArticleAuthor.check(r, author); err != nil {
		return nil, err
	}
	if err := ArticleMagazine.check(r, magazine); err != nil {
		return nil, err
	}

	art := &Article{
		id:        r.newID(),
		title:     title,
		author:    author,
		magazine:  magazine,
		createdAt: r.now(),
		reg:       r,
	}
	r.byAuthor[author] = append(r.byAuthor[author], art)
	r.byMagazine[magazine] = append(r.byMagazine[magazine], art)
	r.articles = append(r.articles, art)
	r.byID[art.id] = art
	r.generation++
	return art, nil
}

// Authors returns every registered author in creation order.
func (r *Registry) Authors() []*Author {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.authors)
}

// Magazines returns every registered magazine in creation order.
func (r *Registry) Magazines() []*Magazine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.magazines)
}

// Articles returns every registered article in creation order.
func (r *Registry) Articles() []*Article {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.articles)
}

// Lookup returns the entity with the given ID.
func (r *Registry) Lookup(id uuid.UUID) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("lookup %s: %w", id, ErrNotFound)
	}
	return e, nil
}

// Author resolves id to an author.
// Returns ErrNotFound for unknown IDs and a *TypeMismatchError when id names
// a magazine or an article.
func (r *Registry) Author(id uuid.UUID) (*Author, error) {
	e, err := r.resolve(id, TypedRef{Field: "author", Kind: KindAuthor})
	if err != nil {
		return nil, err
	}
	return e.(*Author), nil
}

// Magazine resolves id to a magazine.
func (r *Registry) Magazine(id uuid.UUID) (*Magazine, error) {
	e, err := r.resolve(id, TypedRef{Field: "magazine", Kind: KindMagazine})
	if err != nil {
		return nil, err
	}
	return e.(*Magazine), nil
}

// Article resolves id to an article.
func (r *Registry) Article(id uuid.UUID) (*Article, error) {
	e, err := r.resolve(id, TypedRef{Field: "article", Kind: KindArticle})
	if err != nil {
		return nil, err
	}
	return e.(*Article), nil
}

func (r *Registry) resolve(id uuid.UUID, ref TypedRef) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", ref.Kind, id, ErrNotFound)
	}
	if err := ref.check(r, e); err != nil {
		return nil, err
	}
	return e, nil
}

// registered reports whether e is the entity this registry holds under e's ID.
// Callers must hold r.mu.
func (r *Registry) registered(e Entity) bool {
	got, ok := r.byID[e.ID()]
	return ok && got == e
}

// cloneSlice copies s into a new non-nil slice.
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Author is a writer of articles. The name is fixed at construction.
type Author struct {
	id        uuid.UUID
	name      string
	createdAt time.Time
	reg       *Registry
}

// ID returns the author's identity.
func (a *Author) ID() uuid.UUID { return a.id }

// Kind returns KindAuthor.
func (a *Author) Kind() Kind { return KindAuthor }

func (a *Author) isNil() bool { return a == nil }

// Name returns the author's name.
func (a *Author) Name() string { return a.name }

// CreatedAt returns the time the author was registered.
func (a *Author) CreatedAt() time.Time { return a.createdAt }

// SetName always fails: author names are immutable.
func (a *Author) SetName(string) error {
	return &ImmutableFieldError{Entity: "author", Field: "name"}
}

// AddArticle registers a new article by this author in magazine.
// Any validation or reference error from Registry.NewArticle is returned as is.
func (a *Author) AddArticle(magazine *Magazine, title string) (*Article, error) {
	if a.reg == nil {
		return nil, detached(KindAuthor)
	}
	return a.reg.NewArticle(a, magazine, title)
}

// Articles returns the author's articles in creation order.
func (a *Author) Articles() []*Article {
	if a.reg == nil {
		return []*Article{}
	}
	a.reg.mu.RLock()
	defer a.reg.mu.RUnlock()
	return cloneSlice(a.reg.byAuthor[a])
}

// Magazines returns the distinct magazines the author has written for, in
// order of the author's first article in each.
func (a *Author) Magazines() []*Magazine {
	if a.reg == nil {
		return []*Magazine{}
	}
	a.reg.mu.RLock()
	defer a.reg.mu.RUnlock()
	return a.magazines()
}

func (a *Author) magazines() []*Magazine {
	seen := make(map[*Magazine]struct{})
	out := make([]*Magazine, 0)
	for _, art := range a.reg.byAuthor[a] {
		if _, ok := seen[art.magazine]; ok {
			continue
		}
		seen[art.magazine] = struct{}{}
		out = append(out, art.magazine)
	}
	return out
}

// TopicAreas returns the distinct categories of the author's magazines.
// The second result is false when the author has not written for any magazine.
func (a *Author) TopicAreas() ([]string, bool) {
	if a.reg == nil {
		return nil, false
	}
	a.reg.mu.RLock()
	defer a.reg.mu.RUnlock()

	mags := a.magazines()
	if len(mags) == 0 {
		return nil, false
	}

	seen := make(map[string]struct{}, len(mags))
	categories := make([]string, 0, len(mags))
	for _, m := range mags {
		if _, ok := seen[m.category]; ok {
			continue
		}
		seen[m.category] = struct{}{}
		categories = append(categories, m.category)
	}
	return categories, true
}

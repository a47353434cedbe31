package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContributorThreshold is the number of articles an author must exceed in a
// magazine to count as one of its contributing authors.
const ContributorThreshold = 2

// Magazine is a publication that articles appear in. Name and category may be
// changed; every change is validated and an invalid value is rejected with a
// *ValidationError, leaving the previous value in place.
type Magazine struct {
	id        uuid.UUID
	name      string
	category  string
	createdAt time.Time
	reg       *Registry
}

// MagazinePatch lists the fields to change in Magazine.Update. Nil fields are left as is.
type MagazinePatch struct {
	Name     *string
	Category *string
}

// ID returns the magazine's identity.
func (m *Magazine) ID() uuid.UUID { return m.id }

// Kind returns KindMagazine.
func (m *Magazine) Kind() Kind { return KindMagazine }

func (m *Magazine) isNil() bool { return m == nil }

// CreatedAt returns the time the magazine was registered.
func (m *Magazine) CreatedAt() time.Time { return m.createdAt }

// Name returns the magazine's name.
func (m *Magazine) Name() string {
	if m.reg == nil {
		return m.name
	}
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()
	return m.name
}

// Category returns the magazine's category.
func (m *Magazine) Category() string {
	if m.reg == nil {
		return m.category
	}
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()
	return m.category
}

// SetName changes the name. It must be 2 to 16 characters long.
func (m *Magazine) SetName(name string) error {
	return m.Update(MagazinePatch{Name: &name})
}

// SetCategory changes the category. It must not be blank.
func (m *Magazine) SetCategory(category string) error {
	return m.Update(MagazinePatch{Category: &category})
}

// Update validates every field present in p and applies them together.
// If any field is invalid nothing is changed and the validation errors are
// returned joined.
func (m *Magazine) Update(p MagazinePatch) error {
	if m.reg == nil {
		return detached(KindMagazine)
	}
	var errs []error
	if p.Name != nil {
		if err := MagazineName.Check(*p.Name); err != nil {
			errs = append(errs, err)
		}
	}
	if p.Category != nil {
		if err := MagazineCategory.Check(*p.Category); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if p.Name == nil && p.Category == nil {
		return nil
	}

	m.reg.mu.Lock()
	defer m.reg.mu.Unlock()
	if p.Name != nil {
		m.name = *p.Name
	}
	if p.Category != nil {
		m.category = *p.Category
	}
	m.reg.generation++
	return nil
}

// Articles returns the magazine's articles in creation order.
func (m *Magazine) Articles() []*Article {
	if m.reg == nil {
		return []*Article{}
	}
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()
	return cloneSlice(m.reg.byMagazine[m])
}

// Contributors returns the distinct authors of the magazine's articles, in
// order of each author's first article.
func (m *Magazine) Contributors() []*Author {
	if m.reg == nil {
		return []*Author{}
	}
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()

	seen := make(map[*Author]struct{})
	out := make([]*Author, 0)
	for _, art := range m.reg.byMagazine[m] {
		if _, ok := seen[art.author]; ok {
			continue
		}
		seen[art.author] = struct{}{}
		out = append(out, art.author)
	}
	return out
}

// ArticleTitles returns the titles of the magazine's articles in creation order.
// The second result is false when the magazine has no articles.
func (m *Magazine) ArticleTitles() ([]string, bool) {
	if m.reg == nil {
		return nil, false
	}
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()

	arts := m.reg.byMagazine[m]
	if len(arts) == 0 {
		return nil, false
	}
	titles := make([]string, len(arts))
	for i, art := range arts {
		titles[i] = art.title
	}
	return titles, true
}

// ContributingAuthors returns the authors with more than ContributorThreshold
// articles in the magazine, in order of each author's first article.
// The second result is false when no author qualifies.
func (m *Magazine) ContributingAuthors() ([]*Author, bool) {
	if m.reg == nil {
		return nil, false
	}
	m.reg.mu.RLock()
	defer m.reg.mu.RUnlock()

	counts := make(map[*Author]int)
	var order []*Author
	for _, art := range m.reg.byMagazine[m] {
		if counts[art.author] == 0 {
			order = append(order, art.author)
		}
		counts[art.author]++
	}

	var out []*Author
	for _, a := range order {
		if counts[a] > ContributorThreshold {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Article is a piece written by one author for one magazine.
// Author and magazine are fixed at construction; the title may be changed
// under the same 5 to 50 character rule that applies at construction.
type Article struct {
	id        uuid.UUID
	title     string
	author    *Author
	magazine  *Magazine
	createdAt time.Time
	reg       *Registry
}

// ID returns the article's identity.
func (a *Article) ID() uuid.UUID { return a.id }

// Kind returns KindArticle.
func (a *Article) Kind() Kind { return KindArticle }

func (a *Article) isNil() bool { return a == nil }

// Author returns the article's author.
func (a *Article) Author() *Author { return a.author }

// Magazine returns the magazine the article appears in.
func (a *Article) Magazine() *Magazine { return a.magazine }

// CreatedAt returns the time the article was registered.
func (a *Article) CreatedAt() time.Time { return a.createdAt }

// Title returns the article's title.
func (a *Article) Title() string {
	if a.reg == nil {
		return a.title
	}
	a.reg.mu.RLock()
	defer a.reg.mu.RUnlock()
	return a.title
}

// SetTitle changes the title.
// Returns a *ValidationError, leaving the title unchanged, if title is not
// 5 to 50 characters long.
func (a *Article) SetTitle(title string) error {
	if a.reg == nil {
		return detached(KindArticle)
	}
	if err := ArticleTitle.Check(title); err != nil {
		return err
	}

	a.reg.mu.Lock()
	defer a.reg.mu.Unlock()
	a.title = title
	a.reg.generation++
	return nil
}

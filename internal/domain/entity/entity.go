// Package entity defines the authors, magazines and articles of the catalog
// together with the Registry that owns them.
//
// Article is the join entity of the Author×Magazine many-to-many relation.
// Every entity is created through a Registry, which validates fields on write,
// indexes each article under its author and magazine, and answers the derived
// queries (an author's magazines, a magazine's contributors, ...) by traversing
// those indexes. Entities are compared by identity only: two authors with the
// same name are different authors.
//
// Only values returned by a Registry are usable. On a zero value built
// outside the package, writes fail with a *TypeMismatchError and queries
// report no related entities.
package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the kind of an entity.
type Kind int

const (
	KindAuthor Kind = iota + 1
	KindMagazine
	KindArticle
)

// String returns the entity kind name.
func (k Kind) String() string {
	switch k {
	case KindAuthor:
		return "Author"
	case KindMagazine:
		return "Magazine"
	case KindArticle:
		return "Article"
	default:
		return "Unknown"
	}
}

// Entity is implemented by *Author, *Magazine and *Article.
type Entity interface {
	ID() uuid.UUID
	Kind() Kind
	isNil() bool
}

// detached is the error returned by writes on an entity no Registry created.
func detached(k Kind) error {
	ref := TypedRef{Field: strings.ToLower(k.String()), Kind: k}
	return ref.mismatch("unregistered " + k.String())
}

package entity

import (
	"fmt"
	"strings"

	"periodical/internal/utils/text"
)

// Field constraints shared by every entity. Each string field is checked by
// exactly one BoundedString and each relationship field by one TypedRef, so the
// rules cannot drift between constructors and setters.
var (
	AuthorName       = BoundedString{Field: "name", Min: 1}
	MagazineName     = BoundedString{Field: "name", Min: 2, Max: 16}
	MagazineCategory = BoundedString{Field: "category", Min: 1, TrimSpace: true}
	ArticleTitle     = BoundedString{Field: "title", Min: 5, Max: 50}

	ArticleAuthor   = TypedRef{Field: "author", Kind: KindAuthor}
	ArticleMagazine = TypedRef{Field: "magazine", Kind: KindMagazine}
)

// BoundedString constrains the length of a string field, measured in runes.
// Max of zero means no upper bound. When TrimSpace is set the length is
// measured after trimming surrounding white space; the stored value is not
// modified.
type BoundedString struct {
	Field     string
	Min       int
	Max       int
	TrimSpace bool
}

// Check returns a *ValidationError when v does not satisfy the constraint.
func (b BoundedString) Check(v string) error {
	measured := v
	if b.TrimSpace {
		measured = strings.TrimSpace(v)
	}
	n := text.CountRunes(measured)

	if n >= b.Min && (b.Max == 0 || n <= b.Max) {
		return nil
	}
	return &ValidationError{Field: b.Field, Message: b.describe()}
}

func (b BoundedString) describe() string {
	switch {
	case b.Max > 0:
		return fmt.Sprintf("must be between %d and %d characters", b.Min, b.Max)
	case b.Min == 1 && b.TrimSpace:
		return "must not be blank"
	case b.Min == 1:
		return "must not be empty"
	default:
		return fmt.Sprintf("must be at least %d characters", b.Min)
	}
}

// TypedRef constrains a relationship field to a registered entity of one kind.
type TypedRef struct {
	Field string
	Kind  Kind
}

// Check returns a *TypeMismatchError when v is nil, of another kind, or not
// registered in r.
func (t TypedRef) Check(r *Registry, v Entity) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return t.check(r, v)
}

// check is Check for callers already holding r.mu.
func (t TypedRef) check(r *Registry, v Entity) error {
	if v == nil || v.isNil() {
		return t.mismatch("nil")
	}
	if v.Kind() != t.Kind {
		return t.mismatch(v.Kind().String())
	}
	if !r.registered(v) {
		return t.mismatch("unregistered " + v.Kind().String())
	}
	return nil
}

func (t TypedRef) mismatch(got string) error {
	return &TypeMismatchError{Field: t.Field, Want: t.Kind.String(), Got: got}
}

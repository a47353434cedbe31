// Package catalog provides the use cases of the periodical catalog.
//
// Service wraps an entity.Registry with the concerns every caller needs:
// IDs arrive as strings or UUIDs and are resolved to entities, each write is
// traced, counted and logged, and derived queries are served through an
// optional QueryCache keyed by the registry generation so that a cached
// answer is never returned after the catalog changes.
package catalog

import "errors"

// Sentinel errors for catalog use case operations.
// Not-found errors also wrap entity.ErrNotFound.
var (
	// ErrAuthorNotFound indicates that no author has the requested ID.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrMagazineNotFound indicates that no magazine has the requested ID.
	ErrMagazineNotFound = errors.New("magazine not found")

	// ErrArticleNotFound indicates that no article has the requested ID.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidID indicates that an ID is not a well-formed UUID.
	ErrInvalidID = errors.New("invalid ID")
)

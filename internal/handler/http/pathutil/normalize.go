// Package pathutil reduces request paths to route templates for use as
// metric labels.
package pathutil

import (
	"strings"

	"github.com/google/uuid"
)

// IDPlaceholder replaces every UUID segment in a normalised path.
const IDPlaceholder = ":id"

// NormalizePath strips the query string and trailing slash from path and
// replaces each segment that parses as a UUID with IDPlaceholder, so that
// /authors/<uuid>/articles becomes /authors/:id/articles.
//
// Examples:
//
//	NormalizePath("/magazines/3f2b...e1")            // "/magazines/:id"
//	NormalizePath("/magazines/3f2b...e1/articles/")  // "/magazines/:id/articles"
//	NormalizePath("/authors?page=2")                 // "/authors"
//	NormalizePath("/health")                         // "/health"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if len(seg) < 32 {
			continue
		}
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = IDPlaceholder
		}
	}
	return strings.Join(segments, "/")
}

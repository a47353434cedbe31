package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ids maps entities to their IDs so results can be compared by identity.
func ids[E Entity](es []E) []uuid.UUID {
	out := make([]uuid.UUID, len(es))
	for i, e := range es {
		out[i] = e.ID()
	}
	return out
}

func mustAuthor(t *testing.T, reg *Registry, name string) *Author {
	t.Helper()
	a, err := reg.NewAuthor(name)
	require.NoError(t, err)
	return a
}

func mustMagazine(t *testing.T, reg *Registry, name, category string) *Magazine {
	t.Helper()
	m, err := reg.NewMagazine(name, category)
	require.NoError(t, err)
	return m
}

func mustArticle(t *testing.T, a *Author, m *Magazine, title string) *Article {
	t.Helper()
	art, err := a.AddArticle(m, title)
	require.NoError(t, err)
	return art
}

package catalog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"periodical/internal/common/pagination"
	"periodical/internal/domain/entity"
	"periodical/internal/handler/http/requestid"
	"periodical/internal/observability/metrics"
)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return NewService(entity.NewRegistry(), opts...)
}

func ids[E entity.Entity](es []E) []uuid.UUID {
	out := make([]uuid.UUID, len(es))
	for i, e := range es {
		out[i] = e.ID()
	}
	return out
}

type fixture struct {
	svc     *Service
	alice   *entity.Author
	bob     *entity.Author
	sensors *entity.Magazine
	wired   *entity.Magazine
}

// newFixture builds a small catalog:
// alice writes three articles for Sensors and one for Wired, bob writes one
// for Sensors.
func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	ctx := context.Background()
	svc := newService(t, opts...)

	alice, err := svc.CreateAuthor(ctx, "Alice")
	require.NoError(t, err)
	bob, err := svc.CreateAuthor(ctx, "Bob")
	require.NoError(t, err)
	sensors, err := svc.CreateMagazine(ctx, "Sensors", "Internet of Things")
	require.NoError(t, err)
	wired, err := svc.CreateMagazine(ctx, "Wired", "Technology")
	require.NoError(t, err)

	for _, in := range []AddArticleInput{
		{AuthorID: alice.ID(), MagazineID: sensors.ID(), Title: "Edge devices"},
		{AuthorID: bob.ID(), MagazineID: sensors.ID(), Title: "Mesh networks"},
		{AuthorID: alice.ID(), MagazineID: sensors.ID(), Title: "Battery life"},
		{AuthorID: alice.ID(), MagazineID: wired.ID(), Title: "Chip shortages"},
		{AuthorID: alice.ID(), MagazineID: sensors.ID(), Title: "Low power radio"},
	} {
		_, err := svc.AddArticle(ctx, in)
		require.NoError(t, err)
	}
	return fixture{svc: svc, alice: alice, bob: bob, sensors: sensors, wired: wired}
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := ParseID(" " + id.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("42")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestService_CreateAuthor(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a, err := svc.CreateAuthor(ctx, "Alexander O'niel")
	require.NoError(t, err)
	assert.Equal(t, "Alexander O'niel", a.Name())

	_, err = svc.CreateAuthor(ctx, "")
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, 1, svc.Stats(ctx).Authors)
}

func TestService_RenameAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.RenameAuthor(ctx, f.alice.ID(), "Alicia")
	assert.ErrorIs(t, err, entity.ErrImmutableField)
	assert.Equal(t, "Alice", f.alice.Name())

	err = f.svc.RenameAuthor(ctx, uuid.New(), "Alicia")
	assert.ErrorIs(t, err, ErrAuthorNotFound)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestService_CreateMagazine(t *testing.T) {
	tests := []struct {
		name      string
		magName   string
		category  string
		wantField string
	}{
		{name: "valid", magName: "Sensors", category: "Internet of Things"},
		{name: "name too short", magName: "S", category: "IoT", wantField: "name"},
		{name: "name too long", magName: "Seventeen letters", category: "IoT", wantField: "name"},
		{name: "blank category", magName: "Sensors", category: "   ", wantField: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t)
			m, err := svc.CreateMagazine(context.Background(), tt.magName, tt.category)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.magName, m.Name())
				return
			}
			var verr *entity.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Empty(t, svc.Registry().Magazines())
		})
	}
}

func TestService_UpdateMagazine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := "Science & Technology"

	m, err := f.svc.UpdateMagazine(ctx, UpdateMagazineInput{ID: f.sensors.ID(), Category: &category})
	require.NoError(t, err)
	assert.Equal(t, category, m.Category())
	assert.Equal(t, "Sensors", m.Name())

	bad := "X"
	_, err = f.svc.UpdateMagazine(ctx, UpdateMagazineInput{ID: f.sensors.ID(), Name: &bad, Category: &category})
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
	assert.Equal(t, "Sensors", f.sensors.Name())

	_, err = f.svc.UpdateMagazine(ctx, UpdateMagazineInput{ID: f.alice.ID(), Category: &category})
	assert.ErrorIs(t, err, entity.ErrTypeMismatch)

	_, err = f.svc.UpdateMagazine(ctx, UpdateMagazineInput{ID: uuid.New(), Category: &category})
	assert.ErrorIs(t, err, ErrMagazineNotFound)
}

func TestService_AddArticle_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.svc.Stats(ctx).Articles

	tests := []struct {
		name    string
		in      AddArticleInput
		wantErr error
	}{
		{
			name:    "short title",
			in:      AddArticleInput{AuthorID: f.bob.ID(), MagazineID: f.wired.ID(), Title: "Hi"},
			wantErr: entity.ErrValidationFailed,
		},
		{
			name:    "unknown author",
			in:      AddArticleInput{AuthorID: uuid.New(), MagazineID: f.wired.ID(), Title: "Valid title"},
			wantErr: ErrAuthorNotFound,
		},
		{
			name:    "unknown magazine",
			in:      AddArticleInput{AuthorID: f.bob.ID(), MagazineID: uuid.New(), Title: "Valid title"},
			wantErr: ErrMagazineNotFound,
		},
		{
			name:    "magazine given as author",
			in:      AddArticleInput{AuthorID: f.sensors.ID(), MagazineID: f.wired.ID(), Title: "Valid title"},
			wantErr: entity.ErrTypeMismatch,
		},
		{
			name:    "author given as magazine",
			in:      AddArticleInput{AuthorID: f.bob.ID(), MagazineID: f.alice.ID(), Title: "Valid title"},
			wantErr: entity.ErrTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := f.svc.AddArticle(ctx, tt.in)
			assert.Nil(t, art)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.svc.Stats(ctx).Articles)
		})
	}
}

func TestService_RetitleArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	art := f.alice.Articles()[0]

	got, err := f.svc.RetitleArticle(ctx, art.ID(), "Edge devices at scale")
	require.NoError(t, err)
	assert.Same(t, art, got)
	assert.Equal(t, "Edge devices at scale", art.Title())

	_, err = f.svc.RetitleArticle(ctx, art.ID(), "Edge")
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
	assert.Equal(t, "Edge devices at scale", art.Title())

	_, err = f.svc.RetitleArticle(ctx, uuid.New(), "Valid title")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.GetAuthor(ctx, f.bob.ID())
	require.NoError(t, err)
	assert.Same(t, f.bob, a)

	m, err := f.svc.GetMagazine(ctx, f.wired.ID())
	require.NoError(t, err)
	assert.Same(t, f.wired, m)

	art := f.bob.Articles()[0]
	gotArt, err := f.svc.GetArticle(ctx, art.ID())
	require.NoError(t, err)
	assert.Same(t, art, gotArt)

	_, err = f.svc.GetAuthor(ctx, f.wired.ID())
	assert.ErrorIs(t, err, entity.ErrTypeMismatch)
	_, err = f.svc.GetArticle(ctx, f.wired.ID())
	assert.ErrorIs(t, err, entity.ErrTypeMismatch)
	_, err = f.svc.GetMagazine(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMagazineNotFound)
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	authors := f.svc.ListAuthors(ctx, pagination.Params{Page: 1, Limit: 1})
	assert.Equal(t, []uuid.UUID{f.alice.ID()}, ids(authors.Items))
	assert.Equal(t, pagination.Metadata{Total: 2, Page: 1, Limit: 1, TotalPages: 2}, authors.Pagination)

	mags := f.svc.ListMagazines(ctx, pagination.Params{})
	assert.Equal(t, []uuid.UUID{f.sensors.ID(), f.wired.ID()}, ids(mags.Items))
	assert.Equal(t, 20, mags.Pagination.Limit)

	arts := f.svc.ListArticles(ctx, pagination.Params{Page: 2, Limit: 3})
	require.Len(t, arts.Items, 2)
	assert.Equal(t, "Chip shortages", arts.Items[0].Title())
	assert.Equal(t, int64(5), arts.Pagination.Total)
}

func TestService_DerivedQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	arts, err := f.svc.AuthorArticles(ctx, f.alice.ID())
	require.NoError(t, err)
	assert.Len(t, arts, 4)

	mags, err := f.svc.AuthorMagazines(ctx, f.alice.ID())
	require.NoError(t, err)
	if diff := cmp.Diff([]uuid.UUID{f.sensors.ID(), f.wired.ID()}, ids(mags)); diff != "" {
		t.Errorf("AuthorMagazines mismatch (-want +got):\n%s", diff)
	}

	areas, ok, err := f.svc.AuthorTopicAreas(ctx, f.alice.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Internet of Things", "Technology"}, areas)

	contributors, err := f.svc.MagazineContributors(ctx, f.sensors.ID())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.alice.ID(), f.bob.ID()}, ids(contributors))

	titles, ok, err := f.svc.MagazineArticleTitles(ctx, f.sensors.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Edge devices", "Mesh networks", "Battery life", "Low power radio"}, titles)

	contributing, ok, err := f.svc.MagazineContributingAuthors(ctx, f.sensors.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uuid.UUID{f.alice.ID()}, ids(contributing))

	contributing, ok, err = f.svc.MagazineContributingAuthors(ctx, f.wired.ID())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, contributing)

	magArts, err := f.svc.MagazineArticles(ctx, f.wired.ID())
	require.NoError(t, err)
	require.Len(t, magArts, 1)
	assert.Same(t, f.alice, magArts[0].Author())
}

func TestService_DerivedQueries_NoData(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a, err := svc.CreateAuthor(ctx, "Loner")
	require.NoError(t, err)
	m, err := svc.CreateMagazine(ctx, "Empty", "Nothing")
	require.NoError(t, err)

	areas, ok, err := svc.AuthorTopicAreas(ctx, a.ID())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, areas)

	titles, ok, err := svc.MagazineArticleTitles(ctx, m.ID())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, titles)

	arts, err := svc.AuthorArticles(ctx, a.ID())
	require.NoError(t, err)
	assert.NotNil(t, arts)
	assert.Empty(t, arts)

	_, _, err = svc.AuthorTopicAreas(ctx, m.ID())
	assert.ErrorIs(t, err, entity.ErrTypeMismatch)
	_, err = svc.MagazineContributors(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMagazineNotFound)
}

func TestService_QueryCache(t *testing.T) {
	cache := NewQueryCache(time.Minute)
	f := newFixture(t, WithQueryCache(cache))
	ctx := context.Background()

	hits := testutil.ToFloat64(metrics.QueryCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(metrics.QueryCacheTotal.WithLabelValues("miss"))

	first, err := f.svc.MagazineContributors(ctx, f.wired.ID())
	require.NoError(t, err)
	second, err := f.svc.MagazineContributors(ctx, f.wired.ID())
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, misses+1, testutil.ToFloat64(metrics.QueryCacheTotal.WithLabelValues("miss")))
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.QueryCacheTotal.WithLabelValues("hit")))

	// Callers get their own copy.
	second[0] = f.bob
	third, err := f.svc.MagazineContributors(ctx, f.wired.ID())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.alice.ID()}, ids(third))

	// A write moves the generation, so the next read recomputes.
	_, err = f.svc.AddArticle(ctx, AddArticleInput{AuthorID: f.bob.ID(), MagazineID: f.wired.ID(), Title: "Fresh take"})
	require.NoError(t, err)
	fourth, err := f.svc.MagazineContributors(ctx, f.wired.ID())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.alice.ID(), f.bob.ID()}, ids(fourth))
}

func TestService_QueryCache_SeesSetterChanges(t *testing.T) {
	f := newFixture(t, WithQueryCache(NewQueryCache(time.Minute)))
	ctx := context.Background()

	areas, _, err := f.svc.AuthorTopicAreas(ctx, f.alice.ID())
	require.NoError(t, err)
	assert.Contains(t, areas, "Internet of Things")

	// Writes made directly on the entity bump the generation too.
	require.NoError(t, f.sensors.SetCategory("Science & Technology"))

	areas, _, err = f.svc.AuthorTopicAreas(ctx, f.alice.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"Science & Technology", "Technology"}, areas)
}

func TestService_Reset(t *testing.T) {
	cache := NewQueryCache(time.Minute)
	f := newFixture(t, WithQueryCache(cache))
	ctx := context.Background()

	_, err := f.svc.AuthorArticles(ctx, f.alice.ID())
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	f.svc.Reset(ctx)
	assert.Equal(t, entity.Stats{}, f.svc.Stats(ctx))
	assert.Zero(t, cache.Len())

	_, err = f.svc.GetAuthor(ctx, f.alice.ID())
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestService_MutationMetrics(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	success := metrics.MutationsTotal.WithLabelValues("create_author", metrics.ResultSuccess)
	invalid := metrics.MutationsTotal.WithLabelValues("create_author", metrics.ResultValidationError)
	beforeOK, beforeBad := testutil.ToFloat64(success), testutil.ToFloat64(invalid)

	_, err := svc.CreateAuthor(ctx, "Ann")
	require.NoError(t, err)
	_, err = svc.CreateAuthor(ctx, "")
	require.Error(t, err)

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeBad+1, testutil.ToFloat64(invalid))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.EntitiesTotal.WithLabelValues("author")))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, metrics.ResultSuccess},
		{&entity.ValidationError{Field: "name"}, metrics.ResultValidationError},
		{errors.Join(&entity.ValidationError{Field: "name"}), metrics.ResultValidationError},
		{&entity.TypeMismatchError{Field: "author"}, metrics.ResultTypeMismatch},
		{&entity.ImmutableFieldError{Entity: "author", Field: "name"}, metrics.ResultImmutableField},
		{ErrInvalidID, metrics.ResultError},
		{entity.ErrNotFound, metrics.ResultNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.err), "%v", tt.err)
	}
}

func TestService_LogsWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	svc := newService(t, WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	ctx := requestid.WithRequestID(context.Background(), "req-7")

	_, err := svc.CreateMagazine(ctx, "X", "IoT")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-7"`)
	assert.Contains(t, out, `"operation":"create_magazine"`)
	assert.Contains(t, out, `"result":"validation_error"`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestService_Spans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	svc := newService(t)
	ctx := context.Background()
	a, err := svc.CreateAuthor(ctx, "Ann")
	require.NoError(t, err)
	_, err = svc.AuthorMagazines(ctx, a.ID())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "catalog.create_author", spans[0].Name)
	assert.Equal(t, "catalog.query.author_magazines", spans[1].Name)
}

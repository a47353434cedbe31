package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Zero(t, rw.BytesWritten())
}

func TestWrap_ReusesExistingWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	outer := Wrap(rec)
	outer.WriteHeader(http.StatusCreated)
	_, err := outer.Write([]byte(`{"id":"1"}`))
	require.NoError(t, err)

	again := Wrap(outer)
	require.Same(t, outer, again)
	assert.Equal(t, http.StatusCreated, again.StatusCode())
	assert.Equal(t, 10, again.BytesWritten())

	// writes through either handle are counted once
	_, err = again.Write([]byte("\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, outer.BytesWritten())
	assert.Equal(t, 11, rec.Body.Len())
	assert.Same(t, rec, again.Unwrap())
}

func TestWrap_AcrossMiddleware(t *testing.T) {
	var inner *ResponseWriter
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		inner = Wrap(w)
		inner.WriteHeader(http.StatusConflict)
		_, _ = inner.Write([]byte("conflict"))
	})

	rec := httptest.NewRecorder()
	outer := Wrap(rec)
	handler.ServeHTTP(outer, httptest.NewRequest(http.MethodPatch, "/authors/1", nil))

	assert.Same(t, outer, inner)
	assert.Equal(t, http.StatusConflict, outer.StatusCode())
	assert.Equal(t, len("conflict"), outer.BytesWritten())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"created", http.StatusCreated},
		{"no content", http.StatusNoContent},
		{"bad request", http.StatusBadRequest},
		{"unprocessable", http.StatusUnprocessableEntity},
		{"internal error", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rw := Wrap(rec)
			rw.WriteHeader(tt.status)

			assert.Equal(t, tt.status, rw.StatusCode())
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusNotFound, rw.StatusCode())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResponseWriter_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	n, err := rw.Write([]byte("hello "))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, err = rw.Write([]byte("catalog"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Equal(t, 13, rw.BytesWritten())
	assert.Equal(t, "hello catalog", rec.Body.String())
}

func TestResponseWriter_WriteAfterHeaderKeepsStatus(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())
	rw.WriteHeader(http.StatusAccepted)
	_, err := rw.Write([]byte("ok"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, rw.StatusCode())
	assert.True(t, rw.headerWritten)
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	assert.Same(t, rec, rw.Unwrap())
	assert.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, rec.Flushed)
}

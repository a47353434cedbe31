package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"periodical/internal/handler/http/requestid"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}), requestid.Middleware, Logging(logger))

	req := httptest.NewRequest(http.MethodPost, "/authors?dry=1", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/authors", entry["path"])
	assert.Equal(t, "dry=1", entry["query"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
	assert.Equal(t, float64(10), entry["bytes"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLogging_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	h := Logging(slog.New(slog.NewJSONHandler(&buf, nil)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(slog.New(slog.NewJSONHandler(&buf, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("registry corrupted")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/magazines", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "registry corrupted")
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	h := Recover(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestInputValidation(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	h := InputValidation(32)(echo)

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		want        int
	}{
		{name: "get without body", method: http.MethodGet, path: "/authors", want: http.StatusOK},
		{name: "json body", method: http.MethodPost, path: "/authors", body: `{"name":"Ann"}`, contentType: "application/json", want: http.StatusOK},
		{name: "json with charset", method: http.MethodPost, path: "/authors", body: `{}`, contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "form body", method: http.MethodPost, path: "/authors", body: "name=Ann", contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "missing content type", method: http.MethodPost, path: "/authors", body: `{}`, want: http.StatusUnsupportedMediaType},
		{name: "body too large", method: http.MethodPost, path: "/authors", body: `{"name":"` + strings.Repeat("a", 64) + `"}`, contentType: "application/json", want: http.StatusRequestEntityTooLarge},
		{name: "path too long", method: http.MethodGet, path: "/" + strings.Repeat("a", MaxPathLength), want: http.StatusRequestURITooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestWriteLimiter(t *testing.T) {
	wl := NewWriteLimiter(0.001, 2)
	h := wl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(method, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/authors", nil)
		req.RemoteAddr = ip + ":5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, send(http.MethodPatch, "10.0.0.1").Code)

	limited := send(http.MethodPost, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, limited.Body.String())

	assert.Equal(t, http.StatusNoContent, send(http.MethodGet, "10.0.0.1").Code, "reads are never limited")
	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "10.0.0.2").Code, "buckets are per client")
}

func TestWriteLimiter_Disabled(t *testing.T) {
	wl := NewWriteLimiter(0, 0)
	h := wl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 10; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/authors", nil))
		require.Equal(t, http.StatusNoContent, rr.Code)
	}
}

func TestWriteLimiter_Concurrent(t *testing.T) {
	const burst = 5
	wl := NewWriteLimiter(0.001, burst)
	h := wl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/articles", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code == http.StatusNoContent {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, burst, allowed)
}

func TestExtractIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("2001:db8:ffff::/48")}

	tests := []struct {
		name       string
		remoteAddr string
		trusted    []netip.Prefix
		headers    map[string]string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded for ignored without trusted proxies", remoteAddr: "198.51.100.9:4000",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5"}, want: "198.51.100.9"},
		{name: "real ip ignored without trusted proxies", remoteAddr: "198.51.100.9:4000",
			headers: map[string]string{"X-Real-IP": "203.0.113.5"}, want: "198.51.100.9"},
		{name: "forwarded for ignored from untrusted peer", remoteAddr: "198.51.100.9:4000", trusted: proxies,
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5"}, want: "198.51.100.9"},
		{name: "forwarded for from trusted proxy", remoteAddr: "10.0.0.1:1", trusted: proxies,
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, want: "203.0.113.5"},
		{name: "forwarded for with spaces", remoteAddr: "10.0.0.1:1", trusted: proxies,
			headers: map[string]string{"X-Forwarded-For": " 203.0.113.6 "}, want: "203.0.113.6"},
		{name: "invalid forwarded falls through to real ip", remoteAddr: "10.0.0.1:1", trusted: proxies,
			headers: map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "203.0.113.7"}, want: "203.0.113.7"},
		{name: "trusted proxy without headers", remoteAddr: "10.0.0.1:1", trusted: proxies, want: "10.0.0.1"},
		{name: "trusted ipv6 proxy", remoteAddr: "[2001:db8:ffff::2]:443", trusted: proxies,
			headers: map[string]string{"X-Real-IP": "203.0.113.8"}, want: "203.0.113.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestWriteLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	wl := NewWriteLimiter(0.001, 1)
	h := wl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/authors", nil)
		req.RemoteAddr = "198.51.100.9:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == http.StatusNoContent {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestWriteLimiter_TrustedProxyForwardsClients(t *testing.T) {
	wl := NewWriteLimiter(0.001, 1, netip.MustParsePrefix("10.0.0.0/8"))
	h := wl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	post := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/authors", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		req.Header.Set("X-Forwarded-For", client)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusNoContent, post("203.0.113.1"))
	assert.Equal(t, http.StatusNoContent, post("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, post("203.0.113.1"))
}

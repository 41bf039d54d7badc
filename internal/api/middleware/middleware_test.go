package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/localpulse/localpulse/internal/adapters/cache"
	"github.com/localpulse/localpulse/internal/api/middleware"
)

func countingHandler(calls *int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func TestCacheMiddleware_CachesCityList(t *testing.T) {
	calls := 0
	handler := middleware.NewCacheMiddleware(cache.NewMemoryAdapter()).Middleware(countingHandler(&calls, `{"cities":["All"]}`))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/cities", nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `{"cities":["All"]}`, second.Body.String())
}

func TestCacheMiddleware_NeverCachesSessions(t *testing.T) {
	calls := 0
	handler := middleware.NewCacheMiddleware(cache.NewMemoryAdapter()).Middleware(countingHandler(&calls, `{}`))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/list", nil))
		assert.Empty(t, w.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestETag_NotModified(t *testing.T) {
	calls := 0
	handler := middleware.ETag(countingHandler(&calls, `{"rows":[]}`))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/list", nil))
	etag := first.Header().Get("ETag")
	assert.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/list", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
}

func TestResponseOptimization_SkipsEventStreams(t *testing.T) {
	calls := 0
	handler := middleware.ResponseOptimization(countingHandler(&calls, "event: connected\n\n"))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/events", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Empty(t, w.Header().Get("ETag"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "event: connected\n\n", w.Body.String())
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/cities", "public, max-age=3600"},
		{"/api/sessions/s-1", "private, no-cache, must-revalidate"},
		{"/api/sessions/s-1/events", "no-cache"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			calls := 0
			w := httptest.NewRecorder()
			middleware.CacheControl(countingHandler(&calls, "{}")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Header().Get("Cache-Control"))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	calls := 0
	handler := middleware.CORS(nil)(countingHandler(&calls, "{}"))

	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, calls)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Last-Event-ID")
}

func TestCORS_AllowList(t *testing.T) {
	calls := 0
	handler := middleware.CORS([]string{"https://localpulse.app"})(countingHandler(&calls, "{}"))

	allowed := httptest.NewRequest(http.MethodGet, "/api/cities", nil)
	allowed.Header.Set("Origin", "https://localpulse.app")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, allowed)
	assert.Equal(t, "https://localpulse.app", w.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodGet, "/api/cities", nil)
	denied.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, denied)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 2, calls)
}

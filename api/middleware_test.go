package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter(origins string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware(origins))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func corsGet(t *testing.T, r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSDisabledByDefault(t *testing.T) {
	t.Parallel()

	w := corsGet(t, corsRouter(""), http.MethodGet, "https://app.example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Allow-Origin: %q", got)
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	t.Parallel()

	r := corsRouter("https://app.example.com, https://other.example.com")
	w := corsGet(t, r, http.MethodGet, "https://app.example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("Allow-Origin: %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Fatalf("Allow-Methods: %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "X-API-Key" {
		t.Fatalf("Allow-Headers: %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	t.Parallel()

	w := corsGet(t, corsRouter("https://app.example.com"), http.MethodGet, "https://evil.example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Allow-Origin: %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("Vary: %q", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	t.Parallel()

	w := corsGet(t, corsRouter("*"), http.MethodGet, "https://anywhere.example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin: %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	w := corsGet(t, corsRouter("https://app.example.com"), http.MethodOptions, "https://app.example.com")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status: %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Fatalf("Allow-Methods: %q", got)
	}
}

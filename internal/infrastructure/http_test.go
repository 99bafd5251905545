package infrastructure

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/krobus00/dashboard-service/internal/constant"
)

func TestHTTPServerMiddlewares(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHealthRoutes(mux)
	mux.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	server := NewHTTPServerWithConfig(HTTPServerConfig{Addr: ":0"}, mux)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
	if _, err := uuid.Parse(rec.Header().Get("X-Request-Id")); err != nil {
		t.Errorf("expected a generated uuid request id, got %q", rec.Header().Get("X-Request-Id"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req.Header.Set("X-Request-Id", "given-id")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") != "given-id" {
		t.Errorf("expected request id to be echoed, got %q", rec.Header().Get("X-Request-Id"))
	}

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestHTTPServerRateLimit(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHealthRoutes(mux)

	server := NewHTTPServerWithConfig(HTTPServerConfig{RateLimitRPS: 0.001, RateLimitBurst: 2}, mux)
	defer server.limiter.stop()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other clients should have their own bucket, got %d", rec.Code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	limiter := newIPRateLimiter(1, 1)
	defer limiter.stop()

	limiter.allow("10.0.0.1")
	limiter.evictIdle(time.Now().Add(rateLimitIdleTTL + time.Second))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if len(limiter.clients) != 0 {
		t.Errorf("expected idle client to be evicted, %d left", len(limiter.clients))
	}
}

func TestRateLimitDisabled(t *testing.T) {
	server := NewHTTPServerWithConfig(HTTPServerConfig{}, http.NewServeMux())
	if server.limiter != nil {
		t.Error("expected no limiter when rps is zero")
	}
}

func TestHTTPServerServesOnlyGivenHandler(t *testing.T) {
	server := NewHTTPServerWithConfig(HTTPServerConfig{}, http.NewServeMux())

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constant.HealthRoute, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected health route to be absent unless registered, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected middlewares to wrap the given handler")
	}
}

func TestClientIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:1234"
	if got := clientIPFromRequest(req); got != "192.168.1.5" {
		t.Errorf("unexpected ip %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIPFromRequest(req); got != "203.0.113.9" {
		t.Errorf("unexpected forwarded ip %s", got)
	}
}

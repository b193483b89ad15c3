package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_AllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(100, 5, nil)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRateLimiter_RejectsBurstOverflow(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var rejected int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/members", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code == http.StatusTooManyRequests {
			rejected++
		}
	}

	if rejected == 0 {
		t.Fatal("expected some requests to be rate limited")
	}
}

func TestRateLimiter_PerIPIsolation(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Exhaust the first IP's budget
	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// A different IP still has its own budget
	req2 := httptest.NewRequest(http.MethodGet, "/members", nil)
	req2.RemoteAddr = "10.0.0.4:1234"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req2)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for fresh IP, got %d", rec.Code)
	}
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1234"

	if got := getIP(req); got != "10.0.0.5:1234" {
		t.Fatalf("expected RemoteAddr fallback, got %s", got)
	}

	req.Header.Set("X-Real-IP", "192.168.1.1")
	if got := getIP(req); got != "192.168.1.1" {
		t.Fatalf("expected X-Real-IP, got %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := getIP(req); got != "203.0.113.9" {
		t.Fatalf("expected X-Forwarded-For, got %s", got)
	}
}

func TestRateLimiter_CleanupLimiters(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)

	rl.getLimiter("10.0.0.6")
	if len(rl.limiters) != 1 {
		t.Fatalf("expected 1 limiter, got %d", len(rl.limiters))
	}

	rl.CleanupLimiters()

	if len(rl.limiters) != 0 {
		t.Fatalf("expected cleared limiters, got %d", len(rl.limiters))
	}
}

package tracing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"agora-forum/internal/observability/tracing"
)

func TestMiddleware_PassesRequestThrough(t *testing.T) {
	called := false
	handler := tracing.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called {
		t.Fatal("next handler was not called")
	}
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
}

func TestMiddleware_SetsTraceIDHeader(t *testing.T) {
	// With the SDK provider installed, spans carry a real trace ID which the
	// middleware must surface to clients.
	shutdown, err := tracing.InitProvider("agora-test", "test")
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	handler := tracing.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/submit", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	traceID := rr.Header().Get("X-Trace-Id")
	if traceID == "" {
		t.Fatal("X-Trace-Id header not set")
	}
	if traceID == "00000000000000000000000000000000" {
		t.Error("X-Trace-Id is the zero trace ID; provider not sampling")
	}
}

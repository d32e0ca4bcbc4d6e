package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated X-Request-Id header")
	}
}

func TestRequestIDMiddlewarePreservesInboundID(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "caller-supplied-id")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "caller-supplied-id" {
		t.Fatalf("expected inbound request id to survive, got %q", got)
	}
}

func TestAuthMiddlewareNoOpsWithoutConfiguredToken(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	req := httptest.NewRequest(http.MethodGet, "/uuid/Notch", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code == http.StatusUnauthorized {
		t.Fatal("expected no auth requirement when no bearer token is configured")
	}
}

func TestAuthMiddlewareRejectsWrongToken(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "secret-token")
	req := httptest.NewRequest(http.MethodGet, "/uuid/Notch", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong bearer token, got %d", w.Code)
	}
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"xenos/core"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testResolver(t *testing.T) *core.ResolverContext {
	t.Helper()
	kinds := make(map[string]core.CacheKindConfig)
	policy := core.TTLPolicy{FreshTTL: time.Hour, StaleHorizon: time.Hour, NegativeTTL: time.Minute}
	for _, k := range []string{core.KindUUID, core.KindProfileSigned, core.KindProfileUnsigned, core.KindSkin, core.KindCape, core.KindHead} {
		kinds[k] = core.CacheKindConfig{Policy: policy, Capacity: 100}
	}
	rc, err := core.NewResolverContext(core.ResolverContextConfig{
		Mojang: core.MojangClientConfig{
			UUIDBaseURL:      "http://127.0.0.1:1/uuid",
			UUIDsBaseURL:     "http://127.0.0.1:1/uuids",
			ProfileBaseURL:   "http://127.0.0.1:1/profile",
			TextureAllowHost: "textures.minecraft.net",
			RequestTimeout:   50 * time.Millisecond,
		},
		Admission: core.DefaultAdmissionConfig(),
		CacheKinds: kinds,
		Log:        testLogger(),
		Metrics:    core.NewMetrics(),
	})
	if err != nil {
		t.Fatalf("NewResolverContext failed: %v", err)
	}
	t.Cleanup(func() { rc.Close() })
	return rc
}

func TestHandleHealthz(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var snap core.HealthSnapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestAuthMiddlewareRejectsMissingBearer(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "secret-token")
	req := httptest.NewRequest(http.MethodGet, "/uuid/Notch", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", w.Code)
	}
}

func TestAuthMiddlewareAllowsCorrectBearer(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "secret-token")
	req := httptest.NewRequest(http.MethodGet, "/uuid/Notch", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	// Upstream is unreachable in this test, so the request fails past auth —
	// what matters here is that it is not rejected as unauthorized.
	if w.Code == http.StatusUnauthorized {
		t.Fatal("expected correct bearer token to pass auth")
	}
}

func TestHandleUUIDRejectsOverlongName(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	req := httptest.NewRequest(http.MethodGet, "/uuid/this_name_is_definitely_over_25_bytes", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a name over 25 bytes, got %d", w.Code)
	}
}

func TestHandleUUIDsRejectsOverlongName(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	body, _ := json.Marshal([]string{"Notch", "this_name_is_definitely_over_25_bytes"})
	req := httptest.NewRequest(http.MethodPost, "/uuids", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a batch containing a name over 25 bytes, got %d", w.Code)
	}
}

func TestHandleUUIDsMalformedBody(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	req := httptest.NewRequest(http.MethodPost, "/uuids", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestHandleProfileMalformedUUID(t *testing.T) {
	srv := NewServer(":0", testResolver(t), testLogger(), "")
	req := httptest.NewRequest(http.MethodGet, "/profile/not-a-uuid", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed uuid, got %d", w.Code)
	}
}

func TestWriteErrorMapsKindsToStatus(t *testing.T) {
	cases := map[core.Kind]int{
		core.KindNotFound:     http.StatusNotFound,
		core.KindInvalidInput: http.StatusBadRequest,
		core.KindRateLimited:  http.StatusTooManyRequests,
		core.KindUnavailable:  http.StatusServiceUnavailable,
		core.KindInternal:     http.StatusInternalServerError,
	}
	for kind, wantStatus := range cases {
		w := httptest.NewRecorder()
		writeError(w, core.NewError(kind, "boom", nil))
		if w.Code != wantStatus {
			t.Fatalf("kind %v: expected status %d, got %d", kind, wantStatus, w.Code)
		}
	}
}

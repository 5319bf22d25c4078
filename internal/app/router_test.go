package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soge-platform/api/internal/config"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/store"
)

func newOfflineRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		SessionCookieName:  "soge_sess",
		CSRFEnforce:        true,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		Env:                "dev",
		APIMaxBodyBytes:    2 << 20,
		ImportMaxFileBytes: 10 << 20,
		RateLimitMaxIPs:    100,
	}
	router, err := NewRouter(cfg, store.New(nil), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router
}

func TestRouterWithoutDatabase(t *testing.T) {
	router := newOfflineRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "me requires session", method: http.MethodGet, path: "/api/auth/me", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "clients require session", method: http.MethodGet, path: "/api/clients", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "upload requires session", method: http.MethodPost, path: "/api/imports", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "limit out of range", method: http.MethodGet, path: "/api/imports?limit=500", wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "login body validated", method: http.MethodPost, path: "/api/auth/login", body: `{"email":"admin@soge.local"}`, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if rr.Header().Get("X-Request-Id") == "" {
				t.Fatalf("expected X-Request-Id header")
			}
			if tt.wantCode == "" {
				return
			}
			var env httpx.ErrorEnvelope
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.Error.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, env.Error.Code)
			}
		})
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newOfflineRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/imports", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

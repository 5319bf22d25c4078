package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/soge-platform/api/internal/auth"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/store"
)

type fakeSessions struct {
	byHash  map[string]store.SessionPrincipal
	err     error
	touched []uuid.UUID
}

func (f *fakeSessions) GetSessionPrincipalByTokenHash(_ context.Context, tokenHash string) (store.SessionPrincipal, error) {
	if f.err != nil {
		return store.SessionPrincipal{}, f.err
	}
	p, ok := f.byHash[tokenHash]
	if !ok {
		return store.SessionPrincipal{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeSessions) TouchSession(_ context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakePermissions map[string]bool

func (f fakePermissions) UserHasPermission(_ context.Context, arg store.UserHasPermissionParams) (bool, error) {
	return f[arg.Permission], nil
}

func newPrincipal() store.SessionPrincipal {
	return store.SessionPrincipal{
		SessionID:  uuid.New(),
		UserID:     uuid.New(),
		TenantID:   uuid.New(),
		Email:      "admin@soge.local",
		FullName:   "Admin",
		TenantSlug: "festas",
		TenantName: "Festas",
		CsrfToken:  "csrf-123",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func TestRequireAuth(t *testing.T) {
	principal := newPrincipal()
	sessions := &fakeSessions{byHash: map[string]store.SessionPrincipal{auth.HashToken("good"): principal}}
	mw := AuthMiddleware{Sessions: sessions, CookieName: "soge_sess"}

	var seen Actor
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"unknown token", "bad", http.StatusUnauthorized},
		{"valid token", "good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "soge_sess", Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d (%s)", tt.want, rr.Code, rr.Body.String())
			}
		})
	}

	if seen.TenantID != principal.TenantID || seen.CSRFToken != "csrf-123" {
		t.Fatalf("actor not populated from session: %+v", seen)
	}
	if len(sessions.touched) != 1 || sessions.touched[0] != principal.SessionID {
		t.Fatalf("expected the session to be touched once, got %v", sessions.touched)
	}
}

func TestRequireAuthStorageError(t *testing.T) {
	mw := AuthMiddleware{Sessions: &fakeSessions{err: errors.New("db down")}, CookieName: "soge_sess"}
	handler := mw.RequireAuth(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "soge_sess", Value: "any"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func withActor(req *http.Request) *http.Request {
	p := newPrincipal()
	return req.WithContext(WithActor(req.Context(), Actor{UserID: p.UserID, TenantID: p.TenantID, CSRFToken: p.CsrfToken}))
}

func TestRequirePermission(t *testing.T) {
	checker := fakePermissions{PermImportsRead: true}

	allowed := httptest.NewRecorder()
	RequirePermission(checker, PermImportsRead)(okHandler()).ServeHTTP(allowed, withActor(httptest.NewRequest(http.MethodGet, "/api/imports", nil)))
	if allowed.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", allowed.Code)
	}

	denied := httptest.NewRecorder()
	RequirePermission(checker, PermImportsWrite)(okHandler()).ServeHTTP(denied, withActor(httptest.NewRequest(http.MethodPost, "/api/imports", nil)))
	if denied.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", denied.Code)
	}
	if !strings.Contains(denied.Body.String(), `"permission":"imports.write"`) {
		t.Fatalf("expected permission in details, got %s", denied.Body.String())
	}

	anonymous := httptest.NewRecorder()
	RequirePermission(checker, PermImportsRead)(okHandler()).ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/api/imports", nil))
	if anonymous.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", anonymous.Code)
	}
}

func TestEnforceCSRF(t *testing.T) {
	handler := EnforceCSRF(true)(okHandler())

	tests := []struct {
		name   string
		method string
		token  string
		want   int
	}{
		{"missing token", http.MethodPost, "", http.StatusForbidden},
		{"wrong token", http.MethodPost, "nope", http.StatusForbidden},
		{"matching token", http.MethodPost, "csrf-123", http.StatusOK},
		{"safe method", http.MethodGet, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withActor(httptest.NewRequest(tt.method, "/api/imports", nil))
			if tt.token != "" {
				req.Header.Set("X-CSRF-Token", tt.token)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}

	rr := httptest.NewRecorder()
	EnforceCSRF(false)(okHandler()).ServeHTTP(rr, withActor(httptest.NewRequest(http.MethodPost, "/api/imports", nil)))
	if rr.Code != http.StatusOK {
		t.Fatalf("disabled enforcement should pass through, got %d", rr.Code)
	}
}

func TestRequestIDReusesShortHeader(t *testing.T) {
	var got string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = httpx.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got != "abc-123" || rr.Header().Get("X-Request-Id") != "abc-123" {
		t.Fatalf("expected caller request id to be kept, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("x", maxRequestIDLength+1))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a generated uuid for an oversized header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "abc\ninjected")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a generated uuid for a header with control characters, got %q", got)
	}
}

func TestRequireAuthRejectsExpiredSession(t *testing.T) {
	principal := newPrincipal()
	sessions := &fakeSessions{byHash: map[string]store.SessionPrincipal{auth.HashToken("old"): principal}}
	mw := AuthMiddleware{
		Sessions:   sessions,
		CookieName: "soge_sess",
		Now:        func() time.Time { return principal.ExpiresAt.Add(time.Second) },
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "soge_sess", Value: "old"})
	rr := httptest.NewRecorder()
	mw.RequireAuth(okHandler()).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if len(sessions.touched) != 0 {
		t.Fatalf("expired sessions must not be touched")
	}
}

func TestEnforceCSRFCodes(t *testing.T) {
	handler := EnforceCSRF(true)(okHandler())
	for token, code := range map[string]string{"": "csrf_missing", "nope": "csrf_invalid"} {
		req := withActor(httptest.NewRequest(http.MethodPost, "/api/imports", nil))
		if token != "" {
			req.Header.Set(CSRFHeader, token)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if !strings.Contains(rr.Body.String(), `"code":"`+code+`"`) {
			t.Fatalf("token %q: expected code %s, got %s", token, code, rr.Body.String())
		}
	}
}

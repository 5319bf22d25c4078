package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/api"
	"github.com/soge-platform/api/internal/config"
	"github.com/soge-platform/api/internal/middleware"
)

func TestSetSessionCookie(t *testing.T) {
	s := &Server{Config: config.Config{SessionCookieName: "soge_sess", SecureCookies: true}}

	rr := httptest.NewRecorder()
	s.setSessionCookie(rr, "tok", time.Now().Add(time.Hour))
	issued := rr.Result().Cookies()
	if len(issued) != 1 || issued[0].Value != "tok" || !issued[0].HttpOnly || !issued[0].Secure || issued[0].MaxAge != 0 {
		t.Fatalf("unexpected cookie %+v", issued)
	}

	rr = httptest.NewRecorder()
	s.setSessionCookie(rr, "", time.Time{})
	cleared := rr.Result().Cookies()
	if len(cleared) != 1 || cleared[0].Value != "" || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected a clearing cookie, got %+v", cleared)
	}
}

func TestGetAuthCsrf(t *testing.T) {
	s := newTestServer(0)

	rr := httptest.NewRecorder()
	s.GetAuthCsrf(rr, httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without an actor, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil)
	req = req.WithContext(middleware.WithActor(req.Context(), middleware.Actor{UserID: uuid.New(), TenantID: uuid.New(), CSRFToken: "csrf-9"}))
	rr = httptest.NewRecorder()
	s.GetAuthCsrf(rr, req)

	var body api.CsrfResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body.CsrfToken != "csrf-9" {
		t.Fatalf("unexpected body %s (%v)", rr.Body.String(), err)
	}
}

func TestGetHealthWithoutPool(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestServer(0).GetHealth(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

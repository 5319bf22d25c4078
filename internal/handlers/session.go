package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/soge-platform/api/internal/api"
	"github.com/soge-platform/api/internal/audit"
	"github.com/soge-platform/api/internal/auth"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/middleware"
	"github.com/soge-platform/api/internal/store"
)

var errBadCredentials = errors.New("invalid credentials")

// PostAuthLogin checks the password against every active account with the
// email, across tenants, and opens a session in the first tenant it matches.
func (s *Server) PostAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	requestID := httpx.RequestIDFromContext(r.Context())

	user, err := s.authenticate(r.Context(), string(req.Email), req.Password)
	if errors.Is(err, errBadCredentials) {
		httpx.WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		return
	}
	if err != nil {
		s.Logger.Error("authenticate", "error", err, "request_id", requestID)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to verify credentials", nil)
		return
	}

	// A login replaces whatever session the browser already had.
	if old, err := r.Cookie(s.Config.SessionCookieName); err == nil && old.Value != "" {
		_, _ = s.Q.RevokeSessionByTokenHash(r.Context(), auth.HashToken(old.Value))
	}

	creds, err := auth.NewSessionCredentials()
	if err != nil {
		s.Logger.Error("issue session credentials", "error", err, "request_id", requestID)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create session", nil)
		return
	}
	expiresAt := time.Now().Add(s.Config.SessionTTL)
	sessionID, err := s.Q.CreateSession(r.Context(), store.CreateSessionParams{
		TenantID:  user.TenantID,
		UserID:    user.ID,
		TokenHash: creds.SessionHash,
		CsrfToken: creds.CSRF,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		s.Logger.Error("create session", "error", err, "request_id", requestID)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to save session", nil)
		return
	}

	s.setSessionCookie(w, creds.Session, expiresAt)

	userID := user.ID
	s.Audit.Record(r.Context(), audit.Entry{
		TenantID:   user.TenantID,
		UserID:     &userID,
		Action:     audit.ActionLogin,
		EntityType: "session",
		EntityID:   &sessionID,
		RequestID:  requestID,
	})

	httpx.WriteJSON(w, http.StatusOK, sessionResponse(middleware.Actor{
		UserID:     user.ID,
		TenantID:   user.TenantID,
		Email:      user.Email,
		FullName:   user.FullName,
		TenantSlug: user.TenantSlug,
		TenantName: user.TenantName,
	}))
}

func (s *Server) authenticate(ctx context.Context, email, password string) (store.ListUsersByEmailRow, error) {
	users, err := s.Q.ListUsersByEmail(ctx, email)
	if err != nil {
		return store.ListUsersByEmailRow{}, err
	}
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		ok, err := auth.VerifyPassword(password, user.PasswordHash)
		if err != nil {
			return store.ListUsersByEmailRow{}, err
		}
		if ok {
			return user, nil
		}
	}
	return store.ListUsersByEmailRow{}, errBadCredentials
}

func (s *Server) PostAuthLogout(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.RequireActor(w, r)
	if !ok {
		return
	}

	if _, err := s.Q.RevokeSessionByID(r.Context(), store.RevokeSessionByIDParams{ID: actor.SessionID, TenantID: actor.TenantID}); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to revoke session", nil)
		return
	}
	s.setSessionCookie(w, "", time.Time{})

	userID := actor.UserID
	s.Audit.Record(r.Context(), audit.Entry{
		TenantID:   actor.TenantID,
		UserID:     &userID,
		Action:     audit.ActionLogout,
		EntityType: "session",
		EntityID:   &actor.SessionID,
		RequestID:  httpx.RequestIDFromContext(r.Context()),
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) GetAuthMe(w http.ResponseWriter, r *http.Request) {
	if actor, ok := middleware.RequireActor(w, r); ok {
		httpx.WriteJSON(w, http.StatusOK, sessionResponse(actor))
	}
}

func (s *Server) GetAuthCsrf(w http.ResponseWriter, r *http.Request) {
	if actor, ok := middleware.RequireActor(w, r); ok {
		httpx.WriteJSON(w, http.StatusOK, api.CsrfResponse{CsrfToken: actor.CSRFToken})
	}
}

// setSessionCookie clears the cookie when value is empty.
func (s *Server) setSessionCookie(w http.ResponseWriter, value string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     s.Config.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Config.SecureCookies,
	}
	if value == "" {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = expiresAt
	}
	http.SetCookie(w, cookie)
}

func sessionResponse(actor middleware.Actor) api.AuthSessionResponse {
	return api.AuthSessionResponse{
		User:   api.User{Id: actor.UserID, Email: openapi_types.Email(actor.Email), FullName: actor.FullName},
		Tenant: api.Tenant{Id: actor.TenantID, Slug: actor.TenantSlug, Name: actor.TenantName},
	}
}

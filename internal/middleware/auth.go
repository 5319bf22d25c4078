package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/soge-platform/api/internal/auth"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/store"
)

// SessionStore is the part of *store.Queries the session check needs.
type SessionStore interface {
	GetSessionPrincipalByTokenHash(ctx context.Context, tokenHash string) (store.SessionPrincipal, error)
	TouchSession(ctx context.Context, id uuid.UUID) error
}

// AuthMiddleware resolves the session cookie to an Actor. Revoked, expired
// and unknown sessions all answer 401 with the same code.
type AuthMiddleware struct {
	Sessions   SessionStore
	CookieName string
	Logger     *slog.Logger
	Now        func() time.Time
}

func (m AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.lookup(r)
		switch {
		case errors.Is(err, errNoSession):
			httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
			return
		case errors.Is(err, pgx.ErrNoRows), errors.Is(err, errSessionExpired):
			httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Session is invalid or expired", nil)
			return
		case err != nil:
			m.log(r, "load session", err)
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load session", nil)
			return
		}

		if err := m.Sessions.TouchSession(r.Context(), principal.SessionID); err != nil {
			m.log(r, "touch session", err)
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actorFromPrincipal(principal))))
	})
}

var (
	errNoSession      = errors.New("no session cookie")
	errSessionExpired = errors.New("session expired")
)

func (m AuthMiddleware) lookup(r *http.Request) (store.SessionPrincipal, error) {
	cookie, err := r.Cookie(m.CookieName)
	if err != nil || cookie.Value == "" {
		return store.SessionPrincipal{}, errNoSession
	}
	principal, err := m.Sessions.GetSessionPrincipalByTokenHash(r.Context(), auth.HashToken(cookie.Value))
	if err != nil {
		return store.SessionPrincipal{}, err
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	if !principal.ExpiresAt.IsZero() && !now().Before(principal.ExpiresAt) {
		return store.SessionPrincipal{}, errSessionExpired
	}
	return principal, nil
}

func (m AuthMiddleware) log(r *http.Request, msg string, err error) {
	if m.Logger == nil {
		return
	}
	m.Logger.ErrorContext(r.Context(), msg, "error", err, "request_id", httpx.RequestIDFromContext(r.Context()))
}

func actorFromPrincipal(p store.SessionPrincipal) Actor {
	return Actor{
		SessionID:  p.SessionID,
		UserID:     p.UserID,
		TenantID:   p.TenantID,
		Email:      p.Email,
		FullName:   p.FullName,
		TenantSlug: p.TenantSlug,
		TenantName: p.TenantName,
		CSRFToken:  p.CsrfToken,
		ExpiresAt:  p.ExpiresAt,
	}
}

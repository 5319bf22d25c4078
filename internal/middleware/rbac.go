package middleware

import (
	"context"
	"net/http"

	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/store"
)

const (
	PermClientsRead  = "clients.read"
	PermEventsRead   = "events.read"
	PermImportsRead  = "imports.read"
	PermImportsWrite = "imports.write"
)

type PermissionChecker interface {
	UserHasPermission(ctx context.Context, arg store.UserHasPermissionParams) (bool, error)
}

func RequirePermission(checker PermissionChecker, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := RequireActor(w, r)
			if !ok {
				return
			}

			has, err := checker.UserHasPermission(r.Context(), store.UserHasPermissionParams{
				UserID:     actor.UserID,
				TenantID:   actor.TenantID,
				Permission: permission,
			})
			if err != nil {
				httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Permission check failed", nil)
				return
			}
			if !has {
				httpx.WriteError(w, r, http.StatusForbidden, "forbidden", "Permission denied", map[string]string{"permission": permission})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

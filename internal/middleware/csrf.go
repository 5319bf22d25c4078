package middleware

import (
	"net/http"
	"strings"

	"github.com/soge-platform/api/internal/auth"
	"github.com/soge-platform/api/internal/httpx"
)

const CSRFHeader = "X-CSRF-Token"

// EnforceCSRF checks the session's double-submit token on every unsafe
// method. It must run after RequireAuth.
func EnforceCSRF(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			actor, ok := RequireActor(w, r)
			if !ok {
				return
			}
			token := strings.TrimSpace(r.Header.Get(CSRFHeader))
			if token == "" {
				httpx.WriteError(w, r, http.StatusForbidden, "csrf_missing", "Missing "+CSRFHeader+" header", nil)
				return
			}
			if !auth.TokensEqual(token, actor.CSRFToken) {
				httpx.WriteError(w, r, http.StatusForbidden, "csrf_invalid", "CSRF token does not match the session", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

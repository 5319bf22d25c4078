package middleware

import (
	"net/http"
	"strings"

	"github.com/soge-platform/api/internal/httpx"
)

const (
	corsAllowHeaders  = "Content-Type, " + CSRFHeader + ", " + httpx.RequestIDHeader
	corsAllowMethods  = "GET, POST, OPTIONS"
	corsExposeHeaders = httpx.RequestIDHeader + ", Content-Disposition"
)

// CORS allows credentialed requests from the configured browser origins.
// Preflights from any other origin are refused with 403.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = normalizeOrigin(origin); origin != "" {
			allowed[origin] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if origin == "" {
				if preflight {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			if !allowed[normalizeOrigin(origin)] {
				if preflight {
					httpx.WriteError(w, r, http.StatusForbidden, "cors_origin_denied", "Origin not allowed", nil)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			if preflight {
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}

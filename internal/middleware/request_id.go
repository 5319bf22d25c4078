package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/httpx"
)

const maxRequestIDLength = 128

// RequestID keeps a caller's X-Request-Id when it is a plain token, so ids
// can be correlated with upstream proxies, and mints a UUID otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(httpx.RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		w.Header().Set(httpx.RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(httpx.WithRequestID(r.Context(), requestID)))
	})
}

// validRequestID accepts [A-Za-z0-9._:-]{1,128}; anything else could smuggle
// control characters into log lines.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == ':', c == '-':
		default:
			return false
		}
	}
	return true
}

package middleware

import (
	"net/http"
	"strings"
)

// BodyLimitOverride raises or lowers the body cap for one route. An empty
// Method matches every method; PathPrefix may be given with or without the
// /api mount prefix.
type BodyLimitOverride struct {
	Method     string
	PathPrefix string
	MaxBytes   int64
}

func (o BodyLimitOverride) matches(r *http.Request) bool {
	if o.PathPrefix == "" || o.MaxBytes <= 0 {
		return false
	}
	if o.Method != "" && o.Method != r.Method {
		return false
	}
	path := r.URL.Path
	return strings.HasPrefix(path, o.PathPrefix) || strings.HasPrefix(strings.TrimPrefix(path, "/api"), o.PathPrefix)
}

func LimitBodyBytesWithOverrides(defaultMax int64, overrides []BodyLimitOverride) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			maxBytes := defaultMax
			for _, override := range overrides {
				if override.matches(r) {
					maxBytes = override.MaxBytes
					break
				}
			}
			if maxBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

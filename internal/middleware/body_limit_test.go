package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLimitBodyBytesWithOverridesRaisesImportLimit(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mw := LimitBodyBytesWithOverrides(2, []BodyLimitOverride{
		{Method: http.MethodPost, PathPrefix: "/imports", MaxBytes: 10},
	})
	router := mw(handler)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"override applies on /api path", http.MethodPost, "/api/imports", http.StatusOK},
		{"override applies without mount prefix", http.MethodPost, "/imports", http.StatusOK},
		{"override is method scoped", http.MethodPut, "/api/imports", http.StatusRequestEntityTooLarge},
		{"default limit applies elsewhere", http.MethodPost, "/api/clients", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("12345"))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

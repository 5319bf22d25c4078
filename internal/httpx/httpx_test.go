package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteErrorCarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/imports", nil)
	req = req.WithContext(WithRequestID(req.Context(), "req-1"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, http.StatusBadRequest, "missing_file", "file is required", map[string]string{"field": "file"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var env ErrorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.RequestID != "req-1" || env.Error.Code != "missing_file" || env.Error.Message != "file is required" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestWriteErrorFallsBackToResponseHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.Header().Set(RequestIDHeader, "req-2")
	WriteError(rr, httptest.NewRequest(http.MethodGet, "/api/imports", nil), http.StatusBadRequest, "validation_error", "bad", nil)

	var env ErrorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.RequestID != "req-2" {
		t.Fatalf("expected request id from the response header, got %q", env.RequestID)
	}
}

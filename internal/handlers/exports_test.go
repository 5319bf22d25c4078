package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/middleware"
	"github.com/soge-platform/api/internal/spreadsheet"
)

func TestGetImportsTemplate(t *testing.T) {
	s := newTestServer(1 << 20)

	req := httptest.NewRequest(http.MethodGet, "/api/templates/workbook", nil)
	req = req.WithContext(middleware.WithActor(req.Context(), middleware.Actor{TenantID: uuid.New(), UserID: uuid.New()}))
	rec := httptest.NewRecorder()
	s.GetImportsTemplate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="soge-template.xlsx"` {
		t.Fatalf("unexpected content disposition %q", got)
	}

	wb, err := spreadsheet.Parse(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	want := []string{"Clientes", "Eventos", "Propostas", "Pagamentos"}
	if len(wb.SheetNames) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, wb.SheetNames)
	}
	for i, name := range want {
		if wb.SheetNames[i] != name {
			t.Fatalf("expected sheets %v, got %v", want, wb.SheetNames)
		}
	}
}

func TestGetImportsTemplateRequiresActor(t *testing.T) {
	s := newTestServer(1 << 20)

	rec := httptest.NewRecorder()
	s.GetImportsTemplate(rec, httptest.NewRequest(http.MethodGet, "/api/templates/workbook", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

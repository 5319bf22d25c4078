package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/soge-platform/api/internal/audit"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/importer"
	"github.com/soge-platform/api/internal/middleware"
	"github.com/soge-platform/api/internal/spreadsheet"
	"github.com/soge-platform/api/internal/store"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportMaxRows   = 100000
)

// GetImportsTemplate serves an empty workbook with every sheet and column the
// importer reads.
func (s *Server) GetImportsTemplate(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.RequireActor(w, r); !ok {
		return
	}
	s.writeWorkbook(w, r, "soge-template.xlsx", importer.Template())
}

// GetExportsWorkbook serves the tenant's clients and events in the import
// layout. Re-importing the file is a no-op.
func (s *Server) GetExportsWorkbook(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.RequireActor(w, r)
	if !ok {
		return
	}

	clients, err := s.Q.ListClients(r.Context(), store.ListClientsParams{TenantID: actor.TenantID, Limit: exportMaxRows})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load clients for export", nil)
		return
	}
	events, err := s.Q.ListEvents(r.Context(), store.ListEventsParams{TenantID: actor.TenantID, Limit: exportMaxRows})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load events for export", nil)
		return
	}

	filename := fmt.Sprintf("soge-export-%s.xlsx", time.Now().UTC().Format("20060102"))
	if !s.writeWorkbook(w, r, filename, importer.ExportSheets(clients, events)) {
		return
	}

	userID := actor.UserID
	s.Audit.Record(r.Context(), audit.Entry{
		TenantID:   actor.TenantID,
		UserID:     &userID,
		Action:     audit.ActionExportDownload,
		EntityType: "workbook",
		RequestID:  httpx.RequestIDFromContext(r.Context()),
		Metadata: map[string]any{
			"filename": filename,
			"clients":  len(clients),
			"events":   len(events),
		},
	})
}

// writeWorkbook renders into memory first so a failure still gets a JSON error.
func (s *Server) writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, sheets []spreadsheet.Sheet) bool {
	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, sheets); err != nil {
		s.Logger.Error("write workbook", "error", err, "request_id", httpx.RequestIDFromContext(r.Context()))
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to generate workbook", nil)
		return false
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	return true
}

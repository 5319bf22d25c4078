package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/soge-platform/api/internal/api"
	"github.com/soge-platform/api/internal/audit"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/importer"
	"github.com/soge-platform/api/internal/middleware"
	"github.com/soge-platform/api/internal/store"
)

const multipartOverhead = 1 << 20

type appError struct {
	Status  int
	Code    string
	Message string
	Details any
}

type uploadedWorkbook struct {
	filename   string
	fileSHA256 string
	data       []byte
}

type importRunSummary struct {
	Report importer.Report `json:"report"`
	Stage  string          `json:"stage,omitempty"`
}

// PostImports loads an uploaded workbook into the actor's tenant. The import
// keeps running if the client goes away; rows already written stay written.
func (s *Server) PostImports(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.RequireActor(w, r)
	if !ok {
		return
	}

	upload, appErr := readWorkbookUpload(w, r, s.Config.ImportMaxFileBytes)
	if appErr != nil {
		httpx.WriteError(w, r, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	requestID := httpx.RequestIDFromContext(ctx)
	userID := actor.UserID

	run, err := s.Q.CreateImportRun(ctx, store.CreateImportRunParams{
		TenantID:        actor.TenantID,
		CreatedByUserID: &userID,
		Filename:        upload.filename,
		FileSha256:      upload.fileSHA256,
	})
	if err != nil {
		s.Logger.Error("create import run", "error", err, "request_id", requestID)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create import run", nil)
		return
	}

	runID := run.ID
	s.Audit.Record(ctx, audit.Entry{
		TenantID:   actor.TenantID,
		UserID:     &userID,
		Action:     audit.ActionImportStarted,
		EntityType: "import_run",
		EntityID:   &runID,
		RequestID:  requestID,
		Metadata: map[string]any{
			"filename":   upload.filename,
			"fileSha256": upload.fileSHA256,
			"sizeBytes":  len(upload.data),
		},
	})

	report, importErr := s.runImport(ctx, actor.TenantID, upload.data)

	summary := importRunSummary{Report: report}
	status := store.ImportRunStatusCompleted
	action := audit.ActionImportCompleted
	var errorMessage *string
	var failure *importer.Failure
	if importErr != nil {
		status = store.ImportRunStatusFailed
		action = audit.ActionImportFailed
		msg := importErr.Error()
		errorMessage = &msg
		if errors.As(importErr, &failure) {
			summary.Stage = failure.Stage
		}
		s.Logger.Warn("import_failed", "error", importErr, "import_run_id", runID.String(), "stage", summary.Stage, "request_id", requestID)
	}

	summaryJSON, _ := json.Marshal(summary)
	if _, err := s.Q.FinishImportRun(ctx, store.FinishImportRunParams{
		ID:           runID,
		TenantID:     actor.TenantID,
		Status:       status,
		SummaryJSON:  summaryJSON,
		ErrorMessage: errorMessage,
	}); err != nil {
		s.Logger.Error("finish import run", "error", err, "import_run_id", runID.String(), "request_id", requestID)
	}

	s.Audit.Record(ctx, audit.Entry{
		TenantID:   actor.TenantID,
		UserID:     &userID,
		Action:     action,
		EntityType: "import_run",
		EntityID:   &runID,
		RequestID:  requestID,
		Metadata: map[string]any{
			"filename": upload.filename,
			"status":   status,
			"counts":   report.Counts,
			"skipped":  report.Skipped,
			"stage":    summary.Stage,
		},
	})

	if importErr != nil {
		if failure != nil && failure.Stage == importer.StageParse {
			httpx.WriteError(w, r, http.StatusBadRequest, "invalid_workbook", importErr.Error(), map[string]any{"importRunId": runID})
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "import_failed", importErr.Error(), map[string]any{
			"importRunId": runID,
			"stage":       summary.Stage,
			"counts":      report.Counts,
		})
		return
	}

	s.Logger.Info("import_completed",
		"import_run_id", runID.String(),
		"tenant_id", actor.TenantID.String(),
		"clients", report.Counts.Clients,
		"events", report.Counts.Events,
		"proposals", report.Counts.Proposals,
		"payments", report.Counts.Payments,
		"request_id", requestID,
	)

	httpx.WriteJSON(w, http.StatusOK, api.ImportResult{
		ImportRunId: runID,
		Sheets:      report.Sheets,
		Resolved:    report.Resolved,
		Counts:      report.Counts,
		Skipped:     report.Skipped,
		RequestId:   requestID,
	})
}

// runImport holds a single pooled connection for the whole import.
func (s *Server) runImport(ctx context.Context, tenantID uuid.UUID, data []byte) (importer.Report, error) {
	conn, err := s.DB.Acquire(ctx)
	if err != nil {
		return importer.Report{}, &importer.Failure{Stage: "acquire_connection", Err: err}
	}
	defer conn.Release()

	return importer.New(store.New(conn), s.Logger).Import(ctx, tenantID, bytes.NewReader(data))
}

func readWorkbookUpload(w http.ResponseWriter, r *http.Request, maxFileBytes int64) (uploadedWorkbook, *appError) {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		return uploadedWorkbook{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "missing_file",
			Message: "multipart/form-data with a file field is required",
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFileBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return uploadedWorkbook{}, fileTooLarge(maxFileBytes)
		}
		return uploadedWorkbook{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_multipart",
			Message: "Failed to parse multipart form",
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return uploadedWorkbook{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "missing_file",
			Message: "file is required",
		}
	}
	defer file.Close()

	if header.Size > maxFileBytes {
		return uploadedWorkbook{}, fileTooLarge(maxFileBytes)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxFileBytes+1))
	if err != nil {
		return uploadedWorkbook{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_file",
			Message: "Failed to read uploaded file",
		}
	}
	if int64(len(data)) > maxFileBytes {
		return uploadedWorkbook{}, fileTooLarge(maxFileBytes)
	}
	if len(data) == 0 {
		return uploadedWorkbook{}, &appError{
			Status:  http.StatusBadRequest,
			Code:    "missing_file",
			Message: "Uploaded file is empty",
		}
	}

	digest := sha256.Sum256(data)
	return uploadedWorkbook{
		filename:   header.Filename,
		fileSHA256: hex.EncodeToString(digest[:]),
		data:       data,
	}, nil
}

func fileTooLarge(maxFileBytes int64) *appError {
	return &appError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "file_too_large",
		Message: "Uploaded file exceeds the size limit",
		Details: map[string]any{"maxBytes": maxFileBytes},
	}
}

func (s *Server) GetImports(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.RequireActor(w, r)
	if !ok {
		return
	}

	runs, err := s.Q.ListImportRuns(r.Context(), store.ListImportRunsParams{
		TenantID: actor.TenantID,
		Limit:    queryLimit(r, 20, 100),
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list import runs", nil)
		return
	}

	items := make([]api.ImportRun, 0, len(runs))
	for _, run := range runs {
		items = append(items, mapImportRun(run))
	}
	httpx.WriteJSON(w, http.StatusOK, api.ImportRunList{Items: items})
}

func (s *Server) GetImportsImportRunId(w http.ResponseWriter, r *http.Request, importRunId openapi_types.UUID) {
	actor, ok := middleware.RequireActor(w, r)
	if !ok {
		return
	}

	run, err := s.Q.GetImportRun(r.Context(), store.GetImportRunParams{
		ID:       importRunId,
		TenantID: actor.TenantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			httpx.WriteError(w, r, http.StatusNotFound, "import_run_not_found", "Import run not found", nil)
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load import run", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, mapImportRun(run))
}

func mapImportRun(run store.ImportRun) api.ImportRun {
	response := api.ImportRun{
		Id:           run.ID,
		Filename:     run.Filename,
		FileSha256:   run.FileSha256,
		Status:       run.Status,
		ErrorMessage: run.ErrorMessage,
		CreatedAt:    run.CreatedAt.UTC(),
	}
	if len(run.SummaryJSON) > 0 {
		response.Summary = json.RawMessage(run.SummaryJSON)
	}
	if run.CompletedAt != nil {
		completed := run.CompletedAt.UTC()
		response.CompletedAt = &completed
	}
	return response
}

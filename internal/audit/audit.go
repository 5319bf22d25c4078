// Package audit records who did what to which tenant's data.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/store"
)

const (
	ActionLogin           = "auth.login"
	ActionLogout          = "auth.logout"
	ActionImportStarted   = "import.started"
	ActionImportCompleted = "import.completed"
	ActionImportFailed    = "import.failed"
	ActionExportDownload  = "export.download"
)

type Inserter interface {
	InsertAuditLog(ctx context.Context, arg store.InsertAuditLogParams) error
}

// Trail writes audit entries. A failed write never fails the request that
// caused it; Record reports it through the slog logger instead.
type Trail struct {
	q      Inserter
	logger *slog.Logger
}

func NewTrail(q Inserter, logger *slog.Logger) *Trail {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Trail{q: q, logger: logger}
}

type Entry struct {
	TenantID   uuid.UUID
	UserID     *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	RequestID  string
	Metadata   map[string]any
}

func (e Entry) params() (store.InsertAuditLogParams, error) {
	p := store.InsertAuditLogParams{
		TenantID:   e.TenantID,
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   []byte("{}"),
	}
	if len(e.Metadata) > 0 {
		encoded, err := json.Marshal(e.Metadata)
		if err != nil {
			return p, fmt.Errorf("marshal metadata: %w", err)
		}
		p.Metadata = encoded
	}
	if e.RequestID != "" {
		p.RequestID = &e.RequestID
	}
	return p, nil
}

// Write inserts one entry and returns any failure.
func (t *Trail) Write(ctx context.Context, entry Entry) error {
	params, err := entry.params()
	if err != nil {
		return err
	}
	if err := t.q.InsertAuditLog(ctx, params); err != nil {
		return fmt.Errorf("insert audit log %s: %w", entry.Action, err)
	}
	return nil
}

func (t *Trail) Record(ctx context.Context, entry Entry) {
	if err := t.Write(ctx, entry); err != nil {
		t.logger.ErrorContext(ctx, "audit_write_failed",
			"error", err,
			"action", entry.Action,
			"tenant_id", entry.TenantID.String(),
			"request_id", entry.RequestID,
		)
	}
}

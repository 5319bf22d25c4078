package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/store"
)

type captureInserter struct {
	got []store.InsertAuditLogParams
	err error
}

func (c *captureInserter) InsertAuditLog(_ context.Context, arg store.InsertAuditLogParams) error {
	if c.err != nil {
		return c.err
	}
	c.got = append(c.got, arg)
	return nil
}

func TestWriteEncodesMetadata(t *testing.T) {
	sink := &captureInserter{}
	runID := uuid.New()

	err := NewTrail(sink, nil).Write(context.Background(), Entry{
		TenantID:   uuid.New(),
		Action:     ActionImportCompleted,
		EntityType: "import_run",
		EntityID:   &runID,
		RequestID:  "req-9",
		Metadata:   map[string]any{"clients": 3},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(sink.got) != 1 {
		t.Fatalf("expected one insert, got %d", len(sink.got))
	}

	got := sink.got[0]
	if got.RequestID == nil || *got.RequestID != "req-9" || got.EntityID == nil || *got.EntityID != runID {
		t.Fatalf("unexpected params %+v", got)
	}
	var meta map[string]int
	if err := json.Unmarshal(got.Metadata, &meta); err != nil || meta["clients"] != 3 {
		t.Fatalf("unexpected metadata %s (%v)", got.Metadata, err)
	}
}

func TestWriteDefaultsToEmptyObject(t *testing.T) {
	sink := &captureInserter{}
	if err := NewTrail(sink, nil).Write(context.Background(), Entry{TenantID: uuid.New(), Action: ActionLogin, EntityType: "session"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if string(sink.got[0].Metadata) != "{}" || sink.got[0].RequestID != nil {
		t.Fatalf("unexpected params %+v", sink.got[0])
	}
}

func TestRecordLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	trail := NewTrail(&captureInserter{err: errors.New("db down")}, slog.New(slog.NewJSONHandler(&buf, nil)))

	trail.Record(context.Background(), Entry{TenantID: uuid.New(), Action: ActionExportDownload, EntityType: "workbook", RequestID: "req-3"})

	out := buf.String()
	if !strings.Contains(out, `"msg":"audit_write_failed"`) || !strings.Contains(out, `"action":"export.download"`) || !strings.Contains(out, "db down") {
		t.Fatalf("expected the failure to be logged, got %s", out)
	}
}

// Package importer loads a parsed workbook into storage: clients, then
// events, then proposals, then payments. Child rows reference their parent
// through the parent's external id and are dropped when it cannot be found.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/spreadsheet"
	"github.com/soge-platform/api/internal/store"
)

type Store interface {
	UpsertClient(ctx context.Context, arg store.UpsertClientParams) (uuid.UUID, error)
	UpsertEvent(ctx context.Context, arg store.UpsertEventParams) (uuid.UUID, error)
	UpsertProposal(ctx context.Context, arg store.UpsertProposalParams) (uuid.UUID, error)
	UpsertPayment(ctx context.Context, arg store.UpsertPaymentParams) (uuid.UUID, error)
	ClientRefs(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error)
	EventRefs(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error)
	ProposalRefs(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error)
}

type Kind string

const (
	KindClients   Kind = "clients"
	KindEvents    Kind = "events"
	KindProposals Kind = "proposals"
	KindPayments  Kind = "payments"
)

// StageParse marks failures that happened before any row was written.
const StageParse = "parse"

var sheetCandidates = map[Kind][]string{
	KindClients:   {"Clientes", "clients", "CLIENTES"},
	KindEvents:    {"Eventos", "events", "EVENTOS"},
	KindProposals: {"Propostas", "proposals", "PROPOSTAS"},
	KindPayments:  {"Pagamentos", "payments", "PAGAMENTOS"},
}

type Counts struct {
	Clients   int `json:"clients"`
	Events    int `json:"events"`
	Proposals int `json:"proposals"`
	Payments  int `json:"payments"`
}

func (c *Counts) add(kind Kind, n int) {
	switch kind {
	case KindClients:
		c.Clients += n
	case KindEvents:
		c.Events += n
	case KindProposals:
		c.Proposals += n
	case KindPayments:
		c.Payments += n
	}
}

type Report struct {
	Sheets   []string        `json:"sheets"`
	Resolved map[Kind]string `json:"resolved"`
	Counts   Counts          `json:"counts"`
	Skipped  Counts          `json:"skipped"`
}

// Failure aborts an import. Rows written by stages before Stage are kept.
type Failure struct {
	Stage string
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("import failed at %s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

type Importer struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Importer{store: store, logger: logger}
}

// Import parses r as a workbook and runs it.
func (im *Importer) Import(ctx context.Context, tenantID uuid.UUID, r io.Reader) (Report, error) {
	wb, err := spreadsheet.Parse(r)
	if err != nil {
		return Report{}, &Failure{Stage: StageParse, Err: err}
	}
	return im.Run(ctx, tenantID, wb)
}

type tally struct {
	imported int
	skipped  int
}

type stage struct {
	kind    Kind
	parents func(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error)
	run     func(ctx context.Context, tenantID uuid.UUID, sheet string, rows []spreadsheet.Row, parents map[string]uuid.UUID) (tally, error)
}

func (im *Importer) stages() []stage {
	return []stage{
		{kind: KindClients, run: im.importClients},
		{kind: KindEvents, parents: im.store.ClientRefs, run: im.importEvents},
		{kind: KindProposals, parents: im.store.EventRefs, run: im.importProposals},
		{kind: KindPayments, parents: im.store.ProposalRefs, run: im.importPayments},
	}
}

// Run imports the workbook stage by stage. A kind without a matching sheet
// imports nothing. Parent references are read from storage right before each
// dependent stage so rows written by the previous stage are visible.
func (im *Importer) Run(ctx context.Context, tenantID uuid.UUID, wb *spreadsheet.Workbook) (Report, error) {
	report := Report{
		Sheets:   append([]string{}, wb.SheetNames...),
		Resolved: map[Kind]string{},
	}

	for _, st := range im.stages() {
		sheet, ok := wb.Find(sheetCandidates[st.kind]...)
		if !ok {
			im.logger.Debug("import_sheet_missing", "tenant_id", tenantID.String(), "stage", string(st.kind))
			continue
		}
		report.Resolved[st.kind] = sheet

		var parents map[string]uuid.UUID
		if st.parents != nil {
			refs, err := st.parents(ctx, tenantID)
			if err != nil {
				return report, &Failure{Stage: string(st.kind), Err: fmt.Errorf("load parent refs: %w", err)}
			}
			parents = refs
		}

		t, err := st.run(ctx, tenantID, sheet, wb.Rows(sheet), parents)
		report.Counts.add(st.kind, t.imported)
		report.Skipped.add(st.kind, t.skipped)
		if err != nil {
			return report, &Failure{Stage: string(st.kind), Err: err}
		}

		im.logger.Info("import_stage_completed",
			"tenant_id", tenantID.String(),
			"stage", string(st.kind),
			"sheet", sheet,
			"imported", t.imported,
			"skipped", t.skipped,
		)
	}

	return report, nil
}

const (
	reasonMissingID        = "missing_id"
	reasonMissingName      = "missing_name"
	reasonMissingParentRef = "missing_parent_ref"
	reasonUnknownParent    = "unknown_parent"
)

func (im *Importer) skip(t *tally, kind Kind, sheet string, row spreadsheet.Row, reason string) {
	t.skipped++
	im.logger.Debug("import_row_skipped", "stage", string(kind), "sheet", sheet, "row", row.Line, "reason", reason)
}

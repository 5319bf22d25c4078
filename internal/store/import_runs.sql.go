package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const importRunColumns = `id, tenant_id, created_by_user_id, filename, file_sha256, status, summary_json, error_message, created_at, completed_at`

func scanImportRun(row pgx.Row) (ImportRun, error) {
	var run ImportRun
	err := row.Scan(
		&run.ID,
		&run.TenantID,
		&run.CreatedByUserID,
		&run.Filename,
		&run.FileSha256,
		&run.Status,
		&run.SummaryJSON,
		&run.ErrorMessage,
		&run.CreatedAt,
		&run.CompletedAt,
	)
	return run, err
}

type CreateImportRunParams struct {
	TenantID        uuid.UUID
	CreatedByUserID *uuid.UUID
	Filename        string
	FileSha256      string
}

func (q *Queries) CreateImportRun(ctx context.Context, arg CreateImportRunParams) (ImportRun, error) {
	row := q.db.QueryRow(ctx, `
INSERT INTO import_runs (tenant_id, created_by_user_id, filename, file_sha256, status)
VALUES ($1, $2, $3, $4, 'running')
RETURNING `+importRunColumns,
		arg.TenantID, arg.CreatedByUserID, arg.Filename, arg.FileSha256)
	return scanImportRun(row)
}

type FinishImportRunParams struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Status       string
	SummaryJSON  []byte
	ErrorMessage *string
}

func (q *Queries) FinishImportRun(ctx context.Context, arg FinishImportRunParams) (ImportRun, error) {
	row := q.db.QueryRow(ctx, `
UPDATE import_runs
SET status = $3, summary_json = $4, error_message = $5, completed_at = now()
WHERE id = $1 AND tenant_id = $2
RETURNING `+importRunColumns,
		arg.ID, arg.TenantID, arg.Status, arg.SummaryJSON, arg.ErrorMessage)
	return scanImportRun(row)
}

type GetImportRunParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) GetImportRun(ctx context.Context, arg GetImportRunParams) (ImportRun, error) {
	row := q.db.QueryRow(ctx, `SELECT `+importRunColumns+` FROM import_runs WHERE id = $1 AND tenant_id = $2`, arg.ID, arg.TenantID)
	return scanImportRun(row)
}

type ListImportRunsParams struct {
	TenantID uuid.UUID
	Limit    int32
}

func (q *Queries) ListImportRuns(ctx context.Context, arg ListImportRunsParams) ([]ImportRun, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+importRunColumns+`
FROM import_runs
WHERE tenant_id = $1
ORDER BY created_at DESC
LIMIT $2`, arg.TenantID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ImportRun, error) {
		return scanImportRun(row)
	})
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const upsertClient = `
INSERT INTO clients (tenant_id, external_id, name, phone, email, notes)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (tenant_id, external_id) DO UPDATE SET
  name = EXCLUDED.name,
  phone = EXCLUDED.phone,
  email = EXCLUDED.email,
  notes = EXCLUDED.notes,
  updated_at = now()
RETURNING id
`

func (q *Queries) UpsertClient(ctx context.Context, arg UpsertClientParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, upsertClient,
		arg.TenantID,
		arg.ExternalID,
		arg.Name,
		arg.Phone,
		arg.Email,
		arg.Notes,
	).Scan(&id)
	return id, err
}

const upsertEvent = `
INSERT INTO events (
  tenant_id, external_id, client_id, event_date, start_time, end_time, event_type,
  theme, kids_qty, avg_age, neighborhood, address, status, notes
)
VALUES ($1, $2, $3, $4::date, $5::time, $6::time, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (tenant_id, external_id) DO UPDATE SET
  client_id = EXCLUDED.client_id,
  event_date = EXCLUDED.event_date,
  start_time = EXCLUDED.start_time,
  end_time = EXCLUDED.end_time,
  event_type = EXCLUDED.event_type,
  theme = EXCLUDED.theme,
  kids_qty = EXCLUDED.kids_qty,
  avg_age = EXCLUDED.avg_age,
  neighborhood = EXCLUDED.neighborhood,
  address = EXCLUDED.address,
  status = EXCLUDED.status,
  notes = EXCLUDED.notes,
  updated_at = now()
RETURNING id
`

func (q *Queries) UpsertEvent(ctx context.Context, arg UpsertEventParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, upsertEvent,
		arg.TenantID,
		arg.ExternalID,
		arg.ClientID,
		arg.EventDate,
		arg.StartTime,
		arg.EndTime,
		arg.EventType,
		arg.Theme,
		arg.KidsQty,
		arg.AvgAge,
		arg.Neighborhood,
		arg.Address,
		arg.Status,
		arg.Notes,
	).Scan(&id)
	return id, err
}

const upsertProposal = `
INSERT INTO proposals (
  tenant_id, external_id, event_id, proposal_date, status, package_description,
  service_1, service_2, service_3, service_4, service_5, revenue, suggested_price, total_cost
)
VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12::numeric, $13::numeric, $14::numeric)
ON CONFLICT (tenant_id, external_id) DO UPDATE SET
  event_id = EXCLUDED.event_id,
  proposal_date = EXCLUDED.proposal_date,
  status = EXCLUDED.status,
  package_description = EXCLUDED.package_description,
  service_1 = EXCLUDED.service_1,
  service_2 = EXCLUDED.service_2,
  service_3 = EXCLUDED.service_3,
  service_4 = EXCLUDED.service_4,
  service_5 = EXCLUDED.service_5,
  revenue = EXCLUDED.revenue,
  suggested_price = EXCLUDED.suggested_price,
  total_cost = EXCLUDED.total_cost,
  updated_at = now()
RETURNING id
`

func (q *Queries) UpsertProposal(ctx context.Context, arg UpsertProposalParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, upsertProposal,
		arg.TenantID,
		arg.ExternalID,
		arg.EventID,
		arg.ProposalDate,
		arg.Status,
		arg.PackageDescription,
		arg.Service1,
		arg.Service2,
		arg.Service3,
		arg.Service4,
		arg.Service5,
		arg.Revenue,
		arg.SuggestedPrice,
		arg.TotalCost,
	).Scan(&id)
	return id, err
}

const upsertPayment = `
INSERT INTO payments (
  tenant_id, external_id, proposal_id, method, due_date, expected_amount,
  paid_date, paid_amount, installments
)
VALUES ($1, $2, $3, $4, $5::date, $6::numeric, $7::date, $8::numeric, $9)
ON CONFLICT (tenant_id, external_id) DO UPDATE SET
  proposal_id = EXCLUDED.proposal_id,
  method = EXCLUDED.method,
  due_date = EXCLUDED.due_date,
  expected_amount = EXCLUDED.expected_amount,
  paid_date = EXCLUDED.paid_date,
  paid_amount = EXCLUDED.paid_amount,
  installments = EXCLUDED.installments,
  updated_at = now()
RETURNING id
`

func (q *Queries) UpsertPayment(ctx context.Context, arg UpsertPaymentParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, upsertPayment,
		arg.TenantID,
		arg.ExternalID,
		arg.ProposalID,
		arg.Method,
		arg.DueDate,
		arg.ExpectedAmount,
		arg.PaidDate,
		arg.PaidAmount,
		arg.Installments,
	).Scan(&id)
	return id, err
}

func (q *Queries) ClientRefs(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	return q.refs(ctx, "clients", tenantID)
}

func (q *Queries) EventRefs(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	return q.refs(ctx, "events", tenantID)
}

func (q *Queries) ProposalRefs(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	return q.refs(ctx, "proposals", tenantID)
}

// refs maps external ids to internal ids. table is always a constant from
// this file.
func (q *Queries) refs(ctx context.Context, table string, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, fmt.Sprintf(`SELECT external_id, id FROM %s WHERE tenant_id = $1`, table), tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := map[string]uuid.UUID{}
	for rows.Next() {
		var externalID string
		var id uuid.UUID
		if err := rows.Scan(&externalID, &id); err != nil {
			return nil, err
		}
		refs[externalID] = id
	}
	return refs, rows.Err()
}

type ListClientsParams struct {
	TenantID uuid.UUID
	Limit    int32
}

const listClients = `
SELECT id, tenant_id, external_id, name, phone, email, notes, created_at, updated_at
FROM clients
WHERE tenant_id = $1
ORDER BY created_at DESC, external_id
LIMIT $2
`

func (q *Queries) ListClients(ctx context.Context, arg ListClientsParams) ([]Client, error) {
	rows, err := q.db.Query(ctx, listClients, arg.TenantID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Client, error) {
		var c Client
		err := row.Scan(&c.ID, &c.TenantID, &c.ExternalID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})
}

type ListEventsParams struct {
	TenantID uuid.UUID
	Limit    int32
}

type ListEventsRow struct {
	ID               uuid.UUID
	ExternalID       string
	ClientID         uuid.UUID
	ClientExternalID string
	ClientName       string
	EventDate        *time.Time
	StartTime        *string
	EndTime          *string
	EventType        *string
	Theme            *string
	KidsQty          *int32
	AvgAge           *int32
	Neighborhood     *string
	Address          *string
	Status           *string
	Notes            *string
	UpdatedAt        time.Time
}

const listEvents = `
SELECT e.id, e.external_id, e.client_id, c.external_id, c.name, e.event_date,
  to_char(e.start_time, 'HH24:MI'), to_char(e.end_time, 'HH24:MI'), e.event_type, e.theme,
  e.kids_qty, e.avg_age, e.neighborhood, e.address, e.status, e.notes, e.updated_at
FROM events e
JOIN clients c ON c.id = e.client_id
WHERE e.tenant_id = $1
ORDER BY e.event_date DESC NULLS LAST, e.external_id
LIMIT $2
`

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]ListEventsRow, error) {
	rows, err := q.db.Query(ctx, listEvents, arg.TenantID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ListEventsRow, error) {
		var e ListEventsRow
		err := row.Scan(
			&e.ID, &e.ExternalID, &e.ClientID, &e.ClientExternalID, &e.ClientName, &e.EventDate,
			&e.StartTime, &e.EndTime, &e.EventType, &e.Theme,
			&e.KidsQty, &e.AvgAge, &e.Neighborhood, &e.Address, &e.Status, &e.Notes, &e.UpdatedAt,
		)
		return e, err
	})
}

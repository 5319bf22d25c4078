package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ListUsersByEmailRow struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	TenantSlug   string
	TenantName   string
}

const listUsersByEmail = `
SELECT u.id, u.tenant_id, u.email, u.full_name, u.password_hash, u.is_active, t.slug, t.name
FROM users u
JOIN tenants t ON t.id = u.tenant_id
WHERE lower(u.email) = lower($1)
ORDER BY u.created_at
`

func (q *Queries) ListUsersByEmail(ctx context.Context, email string) ([]ListUsersByEmailRow, error) {
	rows, err := q.db.Query(ctx, listUsersByEmail, email)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ListUsersByEmailRow, error) {
		var u ListUsersByEmailRow
		err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.TenantSlug, &u.TenantName)
		return u, err
	})
}

type CreateSessionParams struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CsrfToken string
	ExpiresAt time.Time
}

const createSession = `
INSERT INTO sessions (tenant_id, user_id, token_hash, csrf_token, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, createSession, arg.TenantID, arg.UserID, arg.TokenHash, arg.CsrfToken, arg.ExpiresAt).Scan(&id)
	return id, err
}

const getSessionPrincipalByTokenHash = `
SELECT s.id, s.user_id, s.tenant_id, u.email, u.full_name, t.slug, t.name, s.csrf_token, s.expires_at
FROM sessions s
JOIN users u ON u.id = s.user_id AND u.tenant_id = s.tenant_id
JOIN tenants t ON t.id = s.tenant_id
WHERE s.token_hash = $1
  AND s.revoked_at IS NULL
  AND s.expires_at > now()
  AND u.is_active
`

func (q *Queries) GetSessionPrincipalByTokenHash(ctx context.Context, tokenHash string) (SessionPrincipal, error) {
	var p SessionPrincipal
	err := q.db.QueryRow(ctx, getSessionPrincipalByTokenHash, tokenHash).Scan(
		&p.SessionID, &p.UserID, &p.TenantID, &p.Email, &p.FullName, &p.TenantSlug, &p.TenantName, &p.CsrfToken, &p.ExpiresAt,
	)
	return p, err
}

func (q *Queries) TouchSession(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `UPDATE sessions SET last_seen_at = now() WHERE id = $1`, id)
	return err
}

func (q *Queries) RevokeSessionByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL`, tokenHash)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type RevokeSessionByIDParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) RevokeSessionByID(ctx context.Context, arg RevokeSessionByIDParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE sessions SET revoked_at = now() WHERE id = $1 AND tenant_id = $2 AND revoked_at IS NULL`, arg.ID, arg.TenantID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type UserHasPermissionParams struct {
	UserID     uuid.UUID
	TenantID   uuid.UUID
	Permission string
}

const userHasPermission = `
SELECT EXISTS (
  SELECT 1
  FROM user_roles ur
  JOIN role_permissions rp ON rp.role_id = ur.role_id
  JOIN permissions p ON p.id = rp.permission_id
  WHERE ur.user_id = $1 AND ur.tenant_id = $2 AND p.name = $3
)
`

func (q *Queries) UserHasPermission(ctx context.Context, arg UserHasPermissionParams) (bool, error) {
	var has bool
	err := q.db.QueryRow(ctx, userHasPermission, arg.UserID, arg.TenantID, arg.Permission).Scan(&has)
	return has, err
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/soge-platform/api/internal/auth"
	"github.com/soge-platform/api/internal/middleware"
)

var permissions = map[string]string{
	middleware.PermClientsRead:  "Read imported clients",
	middleware.PermEventsRead:   "Read imported events",
	middleware.PermImportsRead:  "Read spreadsheet import history",
	middleware.PermImportsWrite: "Upload spreadsheets for import",
}

type role struct {
	description string
	permissions []string
}

var roles = map[string]role{
	"admin": {
		description: "Tenant administrator",
		permissions: []string{middleware.PermClientsRead, middleware.PermEventsRead, middleware.PermImportsRead, middleware.PermImportsWrite},
	},
	"operator": {
		description: "Runs spreadsheet imports",
		permissions: []string{middleware.PermImportsRead, middleware.PermImportsWrite, middleware.PermClientsRead, middleware.PermEventsRead},
	},
	"viewer": {
		description: "Read-only access to imported records",
		permissions: []string{middleware.PermClientsRead, middleware.PermEventsRead, middleware.PermImportsRead},
	},
}

type admin struct {
	email    string
	password string
	fullName string
}

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	tenantSlug := envOrDefault("SEED_TENANT_SLUG", "soge-local")
	tenantName := envOrDefault("SEED_TENANT_NAME", "SOGE Local")
	adm := admin{
		email:    envOrDefault("SEED_ADMIN_EMAIL", "admin@soge.local"),
		password: envOrDefault("SEED_ADMIN_PASSWORD", "Admin12345!"),
		fullName: envOrDefault("SEED_ADMIN_NAME", "Local Admin"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tenantID, err := upsertTenant(ctx, tx, tenantSlug, tenantName)
		if err != nil {
			return err
		}
		roleIDs, err := seedRoles(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		return seedAdmin(ctx, tx, tenantID, roleIDs["admin"], adm)
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Printf("Seed completed. tenant=%s admin=%s\n", tenantSlug, adm.email)
}

func upsertTenant(ctx context.Context, tx pgx.Tx, slug, name string) (uuid.UUID, error) {
	var tenantID uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO tenants (slug, name)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, slug, name).Scan(&tenantID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert tenant: %w", err)
	}
	return tenantID, nil
}

func seedRoles(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	for name, description := range permissions {
		if _, err := tx.Exec(ctx, `
			INSERT INTO permissions (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
		`, name, description); err != nil {
			return nil, fmt.Errorf("upsert permission %s: %w", name, err)
		}
	}

	roleIDs := make(map[string]uuid.UUID, len(roles))
	for name, r := range roles {
		var roleID uuid.UUID
		if err := tx.QueryRow(ctx, `
			INSERT INTO roles (tenant_id, name, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (tenant_id, name) DO UPDATE SET description = EXCLUDED.description
			RETURNING id
		`, tenantID, name, r.description).Scan(&roleID); err != nil {
			return nil, fmt.Errorf("upsert role %s: %w", name, err)
		}
		roleIDs[name] = roleID

		if _, err := tx.Exec(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, p.id FROM permissions p WHERE p.name = ANY($2::text[])
			ON CONFLICT DO NOTHING
		`, roleID, r.permissions); err != nil {
			return nil, fmt.Errorf("grant role %s: %w", name, err)
		}
	}
	return roleIDs, nil
}

// seedAdmin keeps an existing user's password so reseeding never locks anyone out.
func seedAdmin(ctx context.Context, tx pgx.Tx, tenantID, roleID uuid.UUID, adm admin) error {
	passwordHash, err := auth.HashPassword(adm.password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO users (tenant_id, email, full_name, password_hash, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT DO NOTHING
	`, tenantID, adm.email, adm.fullName, passwordHash); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}

	var userID uuid.UUID
	if err := tx.QueryRow(ctx, `
		SELECT id FROM users WHERE tenant_id = $1 AND lower(email) = lower($2)
	`, tenantID, adm.email).Scan(&userID); err != nil {
		return fmt.Errorf("find admin: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, tenant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, userID, roleID, tenantID); err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/soge")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionCookieName != "soge_sess" {
		t.Fatalf("expected default cookie name, got %q", cfg.SessionCookieName)
	}
	if cfg.ImportMaxFileBytes != 10*1024*1024 {
		t.Fatalf("expected 10MB import cap, got %d", cfg.ImportMaxFileBytes)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected 10 max conns, got %d", cfg.DBMaxConns)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected 12h session ttl, got %v", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/soge")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("IMPORT_MAX_FILE_MB", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.soge.local , ,https://admin.soge.local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.SecureCookies {
		t.Fatalf("prod must force secure cookies")
	}
	if cfg.ImportMaxFileBytes != 3*1024*1024 {
		t.Fatalf("unexpected import cap %d", cfg.ImportMaxFileBytes)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.soge.local" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing DATABASE_URL to fail")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/soge")
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Fatalf("expected unknown log level to fail")
	}
}

func TestLoadReportsEveryProblem(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("IMPORT_MAX_FILE_MB", "0")
	t.Setenv("CSRF_ENFORCE", "maybe")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, key := range []string{"DATABASE_URL", "DB_MAX_CONNS", "IMPORT_MAX_FILE_MB", "CSRF_ENFORCE"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected %s in %q", key, err.Error())
		}
	}
}

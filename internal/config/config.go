package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DatabaseURL        string
	DBMaxConns         int32
	SessionCookieName  string
	SessionTTL         time.Duration
	SecureCookies      bool
	CSRFEnforce        bool
	CORSAllowedOrigins []string
	Env                string
	APIMaxBodyBytes    int64
	ImportMaxFileBytes int64
	ReadHeaderTimeout  time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RateLimitMaxIPs    int
	LogLevel           slog.Level
}

func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Load reads the environment, after a best-effort .env, and reports every
// malformed or missing setting at once.
func Load() (Config, error) {
	_ = godotenv.Load()

	var env envReader
	cfg := Config{
		Addr:              env.str("API_ADDR", ":8080"),
		DatabaseURL:       env.required("DATABASE_URL"),
		DBMaxConns:        int32(env.positive("DB_MAX_CONNS", 10)),
		SessionCookieName: env.str("SESSION_COOKIE_NAME", "soge_sess"),
		SessionTTL:        time.Duration(env.positive("SESSION_TTL_HOURS", 12)) * time.Hour,
		SecureCookies:     env.boolean("COOKIE_SECURE", false),
		CSRFEnforce:       env.boolean("CSRF_ENFORCE", true),
		CORSAllowedOrigins: env.csv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}),
		Env:                env.str("APP_ENV", "dev"),
		APIMaxBodyBytes:    env.megabytes("API_MAX_BODY_MB", 2),
		ImportMaxFileBytes: env.megabytes("IMPORT_MAX_FILE_MB", 10),
		ReadHeaderTimeout:  env.seconds("API_READ_HEADER_TIMEOUT_SEC", 5),
		ReadTimeout:        env.seconds("API_READ_TIMEOUT_SEC", 15),
		WriteTimeout:       env.seconds("API_WRITE_TIMEOUT_SEC", 30),
		IdleTimeout:        env.seconds("API_IDLE_TIMEOUT_SEC", 60),
		RateLimitMaxIPs:    env.positive("RATE_LIMIT_MAX_IPS", 10000),
		LogLevel:           env.logLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if cfg.IsProd() {
		cfg.SecureCookies = true
	}
	return cfg, nil
}

type envReader struct {
	errs []error
}

func (e *envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (e *envReader) fail(key, raw string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, raw, err))
}

func (e *envReader) str(key, fallback string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return fallback
}

func (e *envReader) required(key string) string {
	v, ok := e.lookup(key)
	if !ok {
		e.errs = append(e.errs, fmt.Errorf("%s is required", key))
	}
	return v
}

func (e *envReader) positive(key string, fallback int) int {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	if n <= 0 {
		e.fail(key, v, errors.New("must be positive"))
		return fallback
	}
	return n
}

func (e *envReader) megabytes(key string, fallback int) int64 {
	return int64(e.positive(key, fallback)) << 20
}

func (e *envReader) seconds(key string, fallback int) time.Duration {
	return time.Duration(e.positive(key, fallback)) * time.Second
}

func (e *envReader) boolean(key string, fallback bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return b
}

func (e *envReader) csv(key string, fallback []string) []string {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}

	result := make([]string, 0, strings.Count(v, ",")+1)
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (e *envReader) logLevel(key string, fallback slog.Level) slog.Level {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return level
}

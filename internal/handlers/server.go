// Package handlers implements the operations of the embedded OpenAPI
// document on top of the store.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soge-platform/api/internal/audit"
	"github.com/soge-platform/api/internal/config"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/store"
)

type Server struct {
	Config config.Config
	Q      *store.Queries
	Audit  *audit.Trail
	Logger *slog.Logger
	DB     *pgxpool.Pool
}

func NewServer(cfg config.Config, q *store.Queries, trail *audit.Trail, logger *slog.Logger, db *pgxpool.Pool) *Server {
	return &Server{Config: cfg, Q: q, Audit: trail, Logger: logger, DB: db}
}

// GetHealth pings the pool when there is one. Offline routers report ok.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			s.Logger.Warn("health_db_unreachable", "error", err, "request_id", httpx.RequestIDFromContext(r.Context()))
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryLimit reads ?limit=, falling back to def and clamping to maxLimit.
func queryLimit(r *http.Request, def, maxLimit int32) int32 {
	n, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
	switch {
	case err != nil, n <= 0:
		return def
	case n > int64(maxLimit):
		return maxLimit
	}
	return int32(n)
}

package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	openapimiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/soge-platform/api/internal/api"
	"github.com/soge-platform/api/internal/audit"
	"github.com/soge-platform/api/internal/config"
	"github.com/soge-platform/api/internal/handlers"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/middleware"
	"github.com/soge-platform/api/internal/store"
)

func NewRouter(cfg config.Config, q *store.Queries, pool *pgxpool.Pool, logger *slog.Logger) (http.Handler, error) {
	doc, err := api.Load()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.IsProd()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.LimitBodyBytesWithOverrides(cfg.APIMaxBodyBytes, []middleware.BodyLimitOverride{
		{Method: http.MethodPost, PathPrefix: "/imports", MaxBytes: cfg.ImportMaxFileBytes + 1<<20},
	}))

	validator := openapimiddleware.OapiRequestValidatorWithOptions(doc, &openapimiddleware.Options{
		SilenceServersWarning: true,
		Options: openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			httpx.WriteJSON(w, statusCode, httpx.ErrorEnvelope{
				Error:     httpx.ErrorBody{Code: "validation_error", Message: message},
				RequestID: w.Header().Get(httpx.RequestIDHeader),
			})
		},
	})

	h := handlers.NewServer(cfg, q, audit.NewTrail(q, logger), logger, pool)
	authMW := middleware.AuthMiddleware{Sessions: q, CookieName: cfg.SessionCookieName, Logger: logger}
	loginLimiter := middleware.NewIPRateLimiterWithMaxEntries(10, time.Minute, cfg.RateLimitMaxIPs)

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Group(func(validated chi.Router) {
			validated.Use(validator)

			validated.Get("/health", h.GetHealth)
			validated.With(loginLimiter.Middleware("Too many login attempts")).Post("/auth/login", h.PostAuthLogin)

			validated.Group(func(protected chi.Router) {
				protected.Use(authMW.RequireAuth)
				protected.Get("/auth/me", h.GetAuthMe)
				protected.Get("/auth/csrf", h.GetAuthCsrf)
				protected.With(middleware.EnforceCSRF(cfg.CSRFEnforce)).Post("/auth/logout", h.PostAuthLogout)

				protected.With(middleware.RequirePermission(q, middleware.PermImportsRead)).Get("/imports", h.GetImports)
				protected.With(middleware.RequirePermission(q, middleware.PermImportsRead)).Get("/imports/{importRunId}", func(w http.ResponseWriter, r *http.Request) {
					importRunID, err := uuidParam(r, "importRunId")
					if err != nil {
						httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "importRunId must be a UUID", nil)
						return
					}
					h.GetImportsImportRunId(w, r, importRunID)
				})
				protected.With(middleware.RequirePermission(q, middleware.PermClientsRead)).Get("/clients", h.GetClients)
				protected.With(middleware.RequirePermission(q, middleware.PermEventsRead)).Get("/events", h.GetEvents)
				protected.With(middleware.RequirePermission(q, middleware.PermImportsRead)).Get("/templates/workbook", h.GetImportsTemplate)
				protected.With(
					middleware.RequirePermission(q, middleware.PermClientsRead),
					middleware.RequirePermission(q, middleware.PermEventsRead),
				).Get("/exports/workbook", h.GetExportsWorkbook)
			})
		})

		// Multipart uploads are checked by the handler itself.
		apiRouter.With(
			authMW.RequireAuth,
			middleware.RequirePermission(q, middleware.PermImportsWrite),
			middleware.EnforceCSRF(cfg.CSRFEnforce),
		).Post("/imports", h.PostImports)
	})

	return r, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

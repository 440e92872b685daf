package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment-specific parts of the router.
type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	// RateLimit in limiter notation, e.g. "100-M". Empty disables limiting.
	RateLimit string
	LogLevel  slog.Level
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	commissionHandler CommissionHandler,
	shiftHandler ShiftHandler,
	dispatchHandler DispatchHandler,
	deductionHandler DeductionHandler,
	payrollHandler PayrollHandler,
	auditHandler AuditHandler,
) (*chi.Mux, error) {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "resto-settlement"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.RateLimit != "" {
		limit, err := middleware.RateLimit(opts.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(limit)
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/auth", func(r chi.Router) {
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})

			r.Post("/commissions/resolve", commissionHandler.Resolve)

			r.Route("/commission-plans", func(r chi.Router) {
				r.Get("/", commissionHandler.ListPlans)

				// Manager only
				r.With(middleware.RequireManager).Put("/", commissionHandler.UpsertPlan)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Post("/editable", shiftHandler.GetOrCreateEditable)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", shiftHandler.Get)
					r.Post("/close", shiftHandler.Close)
					r.Post("/cashup", shiftHandler.RecordCashup)
					r.Get("/cashup", shiftHandler.GetCashup)
					r.Get("/settlements", shiftHandler.ListSettlements)
				})
			})

			r.Route("/dispatches", func(r chi.Router) {
				r.Post("/", dispatchHandler.Create)
				r.Post("/{id}/return", dispatchHandler.RecordReturn)
				r.Get("/{id}/settlement", dispatchHandler.GetSettlement)
			})

			r.Route("/deductions", func(r chi.Router) {
				r.Get("/", deductionHandler.List)
				r.With(middleware.RequireManager).Post("/", deductionHandler.Create)
			})

			r.Route("/payroll/runs", func(r chi.Router) {
				r.With(middleware.RequireManager).Post("/", payrollHandler.Run)
				r.Get("/{year}/{month}", payrollHandler.Get)
			})

			r.With(middleware.RequireManager).Get("/audit/flags", auditHandler.ListFlags)
		})
	})
	return r, nil
}

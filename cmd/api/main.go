package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/config"
	appHTTP "github.com/cmlabs-hris/resto-settlement-go/internal/handler/http"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/jwt"
	auditService "github.com/cmlabs-hris/resto-settlement-go/internal/service/audit"
	cashupService "github.com/cmlabs-hris/resto-settlement-go/internal/service/cashup"
	commissionService "github.com/cmlabs-hris/resto-settlement-go/internal/service/commission"
	deductionService "github.com/cmlabs-hris/resto-settlement-go/internal/service/deduction"
	dispatchService "github.com/cmlabs-hris/resto-settlement-go/internal/service/dispatch"
	payrollService "github.com/cmlabs-hris/resto-settlement-go/internal/service/payroll"
	shiftService "github.com/cmlabs-hris/resto-settlement-go/internal/service/shift"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	auditSvc := auditService.NewAuditService(repos.flags)
	commissionSvc := commissionService.NewCommissionService(repos.tx, repos.employees, repos.plans, auditSvc)
	shiftSvc := shiftService.NewShiftService(repos.tx, repos.shifts, repos.employees)
	dispatchSvc := dispatchService.NewDispatchService(repos.tx, repos.dispatches, repos.employees, shiftSvc, commissionSvc, auditSvc)
	cashupSvc := cashupService.NewCashupService(repos.tx, repos.shifts, repos.cashups, commissionSvc, dispatchSvc)
	deductionSvc := deductionService.NewDeductionService(repos.deductions, repos.employees)
	payrollSvc := payrollService.NewPayrollService(
		repos.tx,
		repos.payroll,
		repos.cashups,
		repos.deductions,
		repos.employees,
		auditSvc,
		cfg.Payroll.PageSize,
	)

	router, err := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.App.AllowedOrigins,
			RateLimit:      cfg.App.RateLimit,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.NewAuthHandler(JWTService),
		appHTTP.NewCommissionHandler(commissionSvc),
		appHTTP.NewShiftHandler(shiftSvc, cashupSvc, dispatchSvc),
		appHTTP.NewDispatchHandler(dispatchSvc),
		appHTTP.NewDeductionHandler(deductionSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewAuditHandler(auditSvc),
	)
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Server running", "addr", srv.Addr, "driver", cfg.Database.Driver, "env", cfg.App.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

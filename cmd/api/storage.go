package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/resto-settlement-go/internal/config"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/cache"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/resto-settlement-go/internal/repository/memory"
	"github.com/cmlabs-hris/resto-settlement-go/internal/repository/postgresql"
)

type repositories struct {
	tx         database.Transactor
	employees  employee.EmployeeRepository
	plans      commission.PlanRepository
	shifts     shift.ShiftRepository
	cashups    cashup.CashupRepository
	dispatches dispatch.DispatchRepository
	deductions deduction.DeductionRepository
	payroll    payroll.PayrollRepository
	flags      audit.FlagRepository
	closers    []func()
}

func (r *repositories) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	var repos *repositories
	switch cfg.Database.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		if path := os.Getenv("MEMORY_SEED_EMPLOYEES"); path != "" {
			if err := seedEmployees(store, path); err != nil {
				return nil, err
			}
		}
		repos = &repositories{
			tx:         memory.NewTransactor(store),
			employees:  memory.NewEmployeeRepository(store),
			plans:      memory.NewPlanRepository(store),
			shifts:     memory.NewShiftRepository(store),
			cashups:    memory.NewCashupRepository(store),
			dispatches: memory.NewDispatchRepository(store),
			deductions: memory.NewDeductionRepository(store),
			payroll:    memory.NewPayrollRepository(store),
			flags:      memory.NewFlagRepository(store),
		}
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if cfg.Database.AutoSchema {
			if err := postgresql.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		repos = &repositories{
			tx:         postgresql.NewTransactor(db),
			employees:  postgresql.NewEmployeeRepository(db),
			plans:      postgresql.NewPlanRepository(db),
			shifts:     postgresql.NewShiftRepository(db),
			cashups:    postgresql.NewCashupRepository(db),
			dispatches: postgresql.NewDispatchRepository(db),
			deductions: postgresql.NewDeductionRepository(db),
			payroll:    postgresql.NewPayrollRepository(db),
			flags:      postgresql.NewFlagRepository(db),
			closers:    []func(){db.Close},
		}
	}

	if cfg.Redis.Host != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// Plans are then read straight from the repository.
			slog.Warn("Plan cache disabled", "error", err)
		} else {
			repos.plans = cache.NewPlanCache(repos.plans, rdb, cfg.Redis.PlanTTL)
			repos.closers = append(repos.closers, func() { _ = rdb.Close() })
		}
	}

	return repos, nil
}

type seedEmployee struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	Type             string  `json:"type"`
	CommissionPlanID *string `json:"commission_plan_id,omitempty"`
}

// seedEmployees loads a JSON array of employees into the memory store.
func seedEmployees(store *memory.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read employee seed: %w", err)
	}
	var seeds []seedEmployee
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to decode employee seed: %w", err)
	}
	for _, s := range seeds {
		store.PutEmployee(employee.Employee{
			ID:               s.ID,
			Name:             s.Name,
			Role:             employee.Role(s.Role),
			Type:             employee.Type(s.Type),
			CommissionPlanID: s.CommissionPlanID,
			IsActive:         true,
		})
	}
	slog.Info("Employees seeded", "count", len(seeds))
	return nil
}

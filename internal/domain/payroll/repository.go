package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

type PayrollRepository interface {
	// GetRun loads a stored run with its lines.
	GetRun(ctx context.Context, year, month int) (PayrollRun, error)
	// CreateRun stores a run and its lines. A second run for the same
	// period fails with ErrPayrollRunExists.
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	// DeleteRun removes a stored run and its lines. Missing runs are ignored.
	DeleteRun(ctx context.Context, year, month int) error
	// SumAppliedBefore totals DeductionsApplied per employee across stored
	// runs for periods strictly before (year, month).
	SumAppliedBefore(ctx context.Context, year, month int) (map[string]decimal.Decimal, error)
}

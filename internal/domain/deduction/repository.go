package deduction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type DeductionRepository interface {
	Create(ctx context.Context, d SalaryDeduction) (SalaryDeduction, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]SalaryDeduction, error)
	// SumBefore totals deductions dated strictly before end, per employee.
	SumBefore(ctx context.Context, end time.Time) (map[string]decimal.Decimal, error)
}

package payroll

import "context"

type PayrollService interface {
	// RunPayroll computes the run for a month. With Persist it is stored in
	// one transaction; otherwise nothing is written.
	RunPayroll(ctx context.Context, req RunPayrollRequest) (PayrollRun, error)
	GetPayrollRun(ctx context.Context, year, month int) (PayrollRun, error)
}

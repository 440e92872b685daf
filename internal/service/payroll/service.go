package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 500

type PayrollServiceImpl struct {
	tx            database.Transactor
	payrollRepo   payroll.PayrollRepository
	cashupRepo    cashup.CashupRepository
	deductionRepo deduction.DeductionRepository
	employeeRepo  employee.EmployeeRepository
	auditService  audit.AuditService
	pageSize      int
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	cashupRepo cashup.CashupRepository,
	deductionRepo deduction.DeductionRepository,
	employeeRepo employee.EmployeeRepository,
	auditService audit.AuditService,
	pageSize int,
) payroll.PayrollService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &PayrollServiceImpl{
		tx:            tx,
		payrollRepo:   payrollRepo,
		cashupRepo:    cashupRepo,
		deductionRepo: deductionRepo,
		employeeRepo:  employeeRepo,
		auditService:  auditService,
		pageSize:      pageSize,
	}
}

// ========== RUN ==========

// RunPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.PayrollRun, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRun{}, err
	}

	if !req.Persist {
		run, _, err := s.compute(ctx, req.Year, req.Month)
		return run, err
	}

	var saved payroll.PayrollRun
	var unreadable []string
	opts := database.TxOptions{
		Serializable: true,
		LockKeys:     []string{fmt.Sprintf("payroll:%04d-%02d", req.Year, req.Month)},
	}
	err := s.tx.WithinTransaction(ctx, opts, func(txCtx context.Context) error {
		_, err := s.payrollRepo.GetRun(txCtx, req.Year, req.Month)
		switch {
		case err == nil && !req.Rerun:
			return payroll.ErrPayrollRunExists
		case err == nil:
			if err := s.payrollRepo.DeleteRun(txCtx, req.Year, req.Month); err != nil {
				return fmt.Errorf("failed to delete previous payroll run: %w", err)
			}
		case !errors.Is(err, payroll.ErrPayrollRunNotFound):
			return fmt.Errorf("failed to get payroll run: %w", err)
		}

		run, bad, err := s.compute(txCtx, req.Year, req.Month)
		if err != nil {
			return err
		}
		saved, err = s.payrollRepo.CreateRun(txCtx, run)
		if err != nil {
			return err
		}
		saved.Diagnostics = run.Diagnostics
		unreadable = bad
		return nil
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	for _, cashupID := range unreadable {
		s.auditService.Raise(ctx, audit.KindMalformedSnapshot, "cashup", cashupID, "commission amount missing or not numeric")
	}
	gross, applied, carry, net := saved.Totals()
	slog.InfoContext(ctx, "Payroll run stored",
		"year", saved.Year, "month", saved.Month, "lines", len(saved.Lines), "rerun", req.Rerun,
		"gross", gross.String(), "applied", applied.String(), "carry_forward", carry.String(), "net", net.String())
	return saved, nil
}

// compute builds the run for a period without writing anything. It also
// returns the ids of cashups whose commission amount could not be read.
func (s *PayrollServiceImpl) compute(ctx context.Context, year, month int) (payroll.PayrollRun, []string, error) {
	start, end := payroll.PeriodBounds(year, month)
	run := payroll.PayrollRun{Year: year, Month: month, PeriodStart: start, PeriodEnd: end}

	gross := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	badByEmployee := make(map[string]int)
	var unreadable []string

	afterID := ""
	for {
		page, err := s.cashupRepo.ListByShiftDate(ctx, start, end, afterID, s.pageSize)
		if err != nil {
			return payroll.PayrollRun{}, nil, fmt.Errorf("failed to list cashups: %w", err)
		}
		for _, c := range page {
			amount, ok := cashup.ReadCommissionAmount(c.Snapshot)
			if !ok {
				badByEmployee[c.EmployeeID]++
				unreadable = append(unreadable, c.CashupID)
			}
			gross[c.EmployeeID] = gross[c.EmployeeID].Add(money.Decimal(amount))
			counts[c.EmployeeID]++
		}
		if len(page) < s.pageSize {
			break
		}
		afterID = page[len(page)-1].CashupID
	}

	owed, err := s.deductionRepo.SumBefore(ctx, end)
	if err != nil {
		return payroll.PayrollRun{}, nil, fmt.Errorf("failed to sum deductions: %w", err)
	}
	appliedBefore, err := s.payrollRepo.SumAppliedBefore(ctx, year, month)
	if err != nil {
		return payroll.PayrollRun{}, nil, fmt.Errorf("failed to sum applied deductions: %w", err)
	}

	employeeIDs := make(map[string]struct{}, len(gross))
	for id := range gross {
		employeeIDs[id] = struct{}{}
	}
	outstanding := make(map[string]decimal.Decimal, len(owed))
	for id, total := range owed {
		o := total.Sub(appliedBefore[id])
		if o.IsPositive() {
			outstanding[id] = o
			employeeIDs[id] = struct{}{}
		}
	}

	names, err := s.employeeNames(ctx, employeeIDs)
	if err != nil {
		return payroll.PayrollRun{}, nil, err
	}

	for id := range employeeIDs {
		line := Settle(gross[id], outstanding[id])
		line.EmployeeID = id
		line.EmployeeName = names[id]
		line.CashupCount = counts[id]
		if n := badByEmployee[id]; n > 0 {
			note := fmt.Sprintf("%d cashup snapshot(s) without a numeric commission amount counted as 0", n)
			line.Note = &note
			run.Diagnostics = append(run.Diagnostics, fmt.Sprintf("employee %s: %s", id, note))
		}
		run.Lines = append(run.Lines, line)
	}
	SortLines(run.Lines)
	sort.Strings(run.Diagnostics)

	if len(unreadable) > 0 {
		slog.WarnContext(ctx, "Cashup snapshots without commission amount", "year", year, "month", month, "count", len(unreadable))
	}
	return run, unreadable, nil
}

// Settle applies outstanding deductions against gross pay. Applied never
// exceeds gross and applied plus carry forward always equals outstanding.
func Settle(gross, outstanding decimal.Decimal) payroll.PayrollLine {
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	applied := decimal.Min(gross, outstanding)
	if applied.IsNegative() {
		applied = decimal.Zero
	}
	return payroll.PayrollLine{
		Gross:             gross,
		TotalOutstanding:  outstanding,
		DeductionsApplied: applied,
		CarryForward:      outstanding.Sub(applied),
		NetPay:            gross.Sub(applied),
	}
}

// SortLines orders by net pay, then gross, both descending, then employee id.
func SortLines(lines []payroll.PayrollLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if c := a.NetPay.Cmp(b.NetPay); c != 0 {
			return c > 0
		}
		if c := a.Gross.Cmp(b.Gross); c != 0 {
			return c > 0
		}
		return a.EmployeeID < b.EmployeeID
	})
}

func (s *PayrollServiceImpl) employeeNames(ctx context.Context, ids map[string]struct{}) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	active, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	for _, e := range active {
		names[e.ID] = e.Name
	}
	for id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		e, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get employee: %w", err)
		}
		names[id] = e.Name
	}
	return names, nil
}

// GetPayrollRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollRun(ctx context.Context, year, month int) (payroll.PayrollRun, error) {
	if !validator.IsValidPeriod(year, month) {
		return payroll.PayrollRun{}, payroll.ErrInvalidPeriod
	}
	run, err := s.payrollRepo.GetRun(ctx, year, month)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	SortLines(run.Lines)
	return run, nil
}

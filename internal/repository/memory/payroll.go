package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

func (r *payrollRepository) GetRun(_ context.Context, year, month int) (payroll.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	run, ok := r.s.runs[period{year, month}]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}
	run.Lines = slices.Clone(run.Lines)
	return run, nil
}

func (r *payrollRepository) CreateRun(_ context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := period{run.Year, run.Month}
	if _, ok := r.s.runs[key]; ok {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunExists
	}
	now := time.Now()
	run.ID = newID()
	run.CreatedAt = now
	run.UpdatedAt = now
	run.Persisted = true
	run.Lines = slices.Clone(run.Lines)
	for i := range run.Lines {
		run.Lines[i].ID = newID()
		run.Lines[i].RunID = run.ID
	}
	r.s.runs[key] = run
	run.Lines = slices.Clone(run.Lines)
	return run, nil
}

func (r *payrollRepository) DeleteRun(_ context.Context, year, month int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.runs, period{year, month})
	return nil
}

func (r *payrollRepository) SumAppliedBefore(_ context.Context, year, month int) (map[string]decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sums := make(map[string]decimal.Decimal)
	for key, run := range r.s.runs {
		if key.year > year || (key.year == year && key.month >= month) {
			continue
		}
		for _, l := range run.Lines {
			sums[l.EmployeeID] = sums[l.EmployeeID].Add(l.DeductionsApplied)
		}
	}
	return sums, nil
}

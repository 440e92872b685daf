package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/shopspring/decimal"
)

type deductionRepository struct {
	s *Store
}

func NewDeductionRepository(s *Store) deduction.DeductionRepository {
	return &deductionRepository{s: s}
}

func (r *deductionRepository) Create(_ context.Context, d deduction.SalaryDeduction) (deduction.SalaryDeduction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = newID()
	d.Metadata = slices.Clone(d.Metadata)
	d.CreatedAt = time.Now()
	r.s.deductions = append(r.s.deductions, d)
	return d, nil
}

func (r *deductionRepository) ListByEmployee(_ context.Context, employeeID string) ([]deduction.SalaryDeduction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []deduction.SalaryDeduction
	for _, d := range r.s.deductions {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *deductionRepository) SumBefore(_ context.Context, end time.Time) (map[string]decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sums := make(map[string]decimal.Decimal)
	for _, d := range r.s.deductions {
		if d.Date.Before(end) {
			sums[d.EmployeeID] = sums[d.EmployeeID].Add(d.Amount)
		}
	}
	return sums, nil
}

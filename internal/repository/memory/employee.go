package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) GetActive(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

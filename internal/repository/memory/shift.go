package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
)

type shiftRepository struct {
	s *Store
}

func NewShiftRepository(s *Store) shift.ShiftRepository {
	return &shiftRepository{s: s}
}

// withSettled fills the derived Settled flag. Caller holds s.mu.
func (r *shiftRepository) withSettled(sh shift.Shift) shift.Shift {
	_, sh.Settled = r.s.shiftCashup[sh.ID]
	sh.Events = slices.Clone(sh.Events)
	return sh
}

func (r *shiftRepository) GetByID(_ context.Context, id string) (shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sh, ok := r.s.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return r.withSettled(sh), nil
}

func (r *shiftRepository) GetLatest(_ context.Context, employeeID string, date time.Time) (shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	day := shift.DateOnly(date)
	for i := len(r.s.shiftOrder) - 1; i >= 0; i-- {
		sh := r.s.shifts[r.s.shiftOrder[i]]
		if sh.EmployeeID == employeeID && sh.Date.Equal(day) {
			return r.withSettled(sh), nil
		}
	}
	return shift.Shift{}, shift.ErrShiftNotFound
}

func (r *shiftRepository) Create(_ context.Context, sh shift.Shift) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	sh.ID = newID()
	sh.Date = shift.DateOnly(sh.Date)
	sh.Events = slices.Clone(sh.Events)
	sh.Settled = false
	sh.CreatedAt = now
	sh.UpdatedAt = now
	r.s.shifts[sh.ID] = sh
	r.s.shiftOrder = append(r.s.shiftOrder, sh.ID)
	return sh, nil
}

func (r *shiftRepository) Update(_ context.Context, sh shift.Shift) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.shifts[sh.ID]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	existing.ClosedAt = sh.ClosedAt
	existing.WaiterMeta = sh.WaiterMeta
	existing.Events = slices.Clone(sh.Events)
	existing.UpdatedAt = time.Now()
	r.s.shifts[sh.ID] = existing
	return r.withSettled(existing), nil
}

package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
)

type cashupRepository struct {
	s *Store
}

func NewCashupRepository(s *Store) cashup.CashupRepository {
	return &cashupRepository{s: s}
}

func (r *cashupRepository) Create(_ context.Context, c cashup.Cashup) (cashup.Cashup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shifts[c.ShiftID]; !ok {
		return cashup.Cashup{}, shift.ErrShiftNotFound
	}
	if _, ok := r.s.shiftCashup[c.ShiftID]; ok {
		return cashup.Cashup{}, shift.ErrShiftAlreadySettled
	}
	c.ID = newID()
	c.Snapshot = slices.Clone(c.Snapshot)
	c.CreatedAt = time.Now()
	r.s.cashups[c.ID] = c
	r.s.shiftCashup[c.ShiftID] = c.ID
	return c, nil
}

func (r *cashupRepository) GetByShiftID(_ context.Context, shiftID string) (cashup.Cashup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.shiftCashup[shiftID]
	if !ok {
		return cashup.Cashup{}, cashup.ErrCashupNotFound
	}
	return r.s.cashups[id], nil
}

func (r *cashupRepository) ListByShiftDate(_ context.Context, from, to time.Time, afterID string, limit int) ([]cashup.StoredCommission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []cashup.StoredCommission
	for _, c := range r.s.cashups {
		sh, ok := r.s.shifts[c.ShiftID]
		if !ok || sh.Date.Before(from) || !sh.Date.Before(to) {
			continue
		}
		if afterID != "" && c.ID <= afterID {
			continue
		}
		out = append(out, cashup.StoredCommission{
			CashupID:   c.ID,
			ShiftID:    c.ShiftID,
			EmployeeID: sh.EmployeeID,
			ShiftDate:  sh.Date,
			Snapshot:   c.Snapshot,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CashupID < out[j].CashupID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PutRawCashup stores a cashup with an arbitrary snapshot, bypassing the
// shape written by the cashup service. Used to seed legacy rows.
func (s *Store) PutRawCashup(shiftID string, snapshot []byte) cashup.Cashup {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cashup.Cashup{ID: newID(), ShiftID: shiftID, Snapshot: snapshot, CreatedAt: time.Now()}
	s.cashups[c.ID] = c
	s.shiftCashup[shiftID] = c.ID
	return c
}

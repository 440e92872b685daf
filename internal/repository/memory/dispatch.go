package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
)

type dispatchRepository struct {
	s *Store
}

func NewDispatchRepository(s *Store) dispatch.DispatchRepository {
	return &dispatchRepository{s: s}
}

// withReturn attaches the dispatch's return. Caller holds s.mu.
func (r *dispatchRepository) withReturn(d dispatch.FieldDispatch) dispatch.FieldDispatch {
	if ret, ok := r.s.returns[d.ID]; ok {
		d.Return = &ret
	} else {
		d.Return = nil
	}
	return d
}

func (r *dispatchRepository) Create(_ context.Context, d dispatch.FieldDispatch) (dispatch.FieldDispatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = newID()
	d.CreatedAt = time.Now()
	d.Return = nil
	r.s.dispatches[d.ID] = d
	return d, nil
}

func (r *dispatchRepository) GetByID(_ context.Context, id string) (dispatch.FieldDispatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.dispatches[id]
	if !ok {
		return dispatch.FieldDispatch{}, dispatch.ErrDispatchNotFound
	}
	return r.withReturn(d), nil
}

func (r *dispatchRepository) ListByShiftID(_ context.Context, shiftID string) ([]dispatch.FieldDispatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []dispatch.FieldDispatch
	for _, d := range r.s.dispatches {
		if d.ShiftID == shiftID {
			out = append(out, r.withReturn(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *dispatchRepository) CreateReturn(_ context.Context, ret dispatch.FieldReturn) (dispatch.FieldReturn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.dispatches[ret.DispatchID]; !ok {
		return dispatch.FieldReturn{}, dispatch.ErrDispatchNotFound
	}
	if _, ok := r.s.returns[ret.DispatchID]; ok {
		return dispatch.FieldReturn{}, dispatch.ErrReturnExists
	}
	ret.ID = newID()
	ret.CreatedAt = time.Now()
	r.s.returns[ret.DispatchID] = ret
	return ret, nil
}

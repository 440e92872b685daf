package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
)

type planRepository struct {
	s *Store
}

func NewPlanRepository(s *Store) commission.PlanRepository {
	return &planRepository{s: s}
}

func (r *planRepository) GetByID(_ context.Context, id string) (commission.CommissionPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[id]
	if !ok {
		return commission.CommissionPlan{}, commission.ErrPlanNotFound
	}
	return p, nil
}

func (r *planRepository) ListDefaultsByRole(_ context.Context, role employee.Role) ([]commission.CommissionPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []commission.CommissionPlan
	for _, p := range r.s.plans {
		if p.IsDefault && p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *planRepository) List(_ context.Context) ([]commission.CommissionPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]commission.CommissionPlan, 0, len(r.s.plans))
	for _, p := range r.s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *planRepository) Upsert(_ context.Context, plan commission.CommissionPlan) (commission.CommissionPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	if plan.ID == "" {
		plan.ID = newID()
	}
	if existing, ok := r.s.plans[plan.ID]; ok {
		plan.CreatedAt = existing.CreatedAt
	} else {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	plan.Brackets = slices.Clone(plan.Brackets)
	r.s.plans[plan.ID] = plan
	return plan, nil
}

func (r *planRepository) ClearDefaults(_ context.Context, role employee.Role, exceptID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.plans {
		if p.Role == role && p.IsDefault && id != exceptID {
			p.IsDefault = false
			p.UpdatedAt = time.Now()
			r.s.plans[id] = p
		}
	}
	return nil
}

package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
)

// planInvalidator is implemented by caching plan repositories.
type planInvalidator interface {
	InvalidateAll(ctx context.Context)
}

type CommissionServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	planRepo     commission.PlanRepository
	auditService audit.AuditService
}

func NewCommissionService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	planRepo commission.PlanRepository,
	auditService audit.AuditService,
) commission.CommissionService {
	return &CommissionServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		planRepo:     planRepo,
		auditService: auditService,
	}
}

// SelectPlan implements commission.CommissionService.
func (s *CommissionServiceImpl) SelectPlan(ctx context.Context, employeeID string) (commission.PlanSelection, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return commission.PlanSelection{Source: commission.PlanSourceNone, Reason: commission.ReasonEmployeeNotFound}, nil
		}
		return commission.PlanSelection{}, fmt.Errorf("failed to get employee: %w", err)
	}

	sel := commission.PlanSelection{Employee: &emp, Source: commission.PlanSourceNone}

	if emp.CommissionPlanID != nil && *emp.CommissionPlanID != "" {
		plan, err := s.planRepo.GetByID(ctx, *emp.CommissionPlanID)
		switch {
		case err == nil:
			sel.Plan = &plan
			sel.Source = commission.PlanSourceEmployee
			return sel, nil
		case errors.Is(err, commission.ErrPlanNotFound):
			diag := fmt.Sprintf("referenced plan %s not found, falling back to role default", *emp.CommissionPlanID)
			slog.WarnContext(ctx, "Employee references missing commission plan", "employee_id", emp.ID, "plan_id", *emp.CommissionPlanID)
			sel.Diagnostics = append(sel.Diagnostics, diag)
		default:
			return commission.PlanSelection{}, fmt.Errorf("failed to get commission plan: %w", err)
		}
	}

	defaults, err := s.planRepo.ListDefaultsByRole(ctx, emp.Role)
	if err != nil {
		return commission.PlanSelection{}, fmt.Errorf("failed to list default plans: %w", err)
	}

	switch len(defaults) {
	case 0:
		sel.Reason = commission.ReasonNoPlan
	case 1:
		sel.Plan = &defaults[0]
		sel.Source = commission.PlanSourceRoleDefault
	default:
		ids := make([]string, 0, len(defaults))
		for _, p := range defaults {
			ids = append(ids, p.ID)
		}
		sel.Reason = commission.ReasonMultipleDefaultPlans
		sel.Diagnostics = append(sel.Diagnostics, fmt.Sprintf("%v: %s", commission.ErrMultipleDefaultPlans, strings.Join(ids, ",")))
		s.auditService.Raise(ctx, audit.KindMultipleDefaultPlans, "role", string(emp.Role), strings.Join(ids, ","))
	}
	return sel, nil
}

// ResolveCommission implements commission.CommissionService.
func (s *CommissionServiceImpl) ResolveCommission(ctx context.Context, employeeID string, amount float64) (commission.Resolution, error) {
	sel, err := s.SelectPlan(ctx, employeeID)
	if err != nil {
		return commission.Resolution{}, err
	}
	return Resolve(ctx, employeeID, amount, sel), nil
}

// Resolve computes the commission for amount under an already selected plan.
func Resolve(ctx context.Context, employeeID string, amount float64, sel commission.PlanSelection) commission.Resolution {
	res := commission.Resolution{
		EmployeeID:  employeeID,
		Amount:      amount,
		PlanSource:  sel.Source,
		Reason:      sel.Reason,
		Diagnostics: sel.Diagnostics,
		Match:       bracket.Match{Encoding: bracket.EncodingNone, TierIndex: -1},
	}
	if sel.Plan == nil {
		return res
	}

	planID, planName := sel.Plan.ID, sel.Plan.Name
	res.PlanID = &planID
	res.PlanName = &planName

	table := sel.Plan.Table()
	if len(table.Diagnostics) > 0 {
		slog.WarnContext(ctx, "Commission plan brackets have problems", "plan_id", planID, "diagnostics", table.Diagnostics)
		res.Diagnostics = append(res.Diagnostics, table.Diagnostics...)
	}

	if !money.IsFinite(amount) || amount <= 0 {
		res.Reason = commission.ReasonNonPositiveAmount
		res.Match.Encoding = table.Encoding
		return res
	}

	res.Match = table.Lookup(amount)
	res.Commission = res.Match.Commission
	res.RatePct = res.Match.RatePct
	if !res.Match.Matched {
		res.Reason = commission.ReasonNoBracketMatch
	}
	return res
}

// UpsertPlan implements commission.CommissionService.
func (s *CommissionServiceImpl) UpsertPlan(ctx context.Context, req commission.UpsertPlanRequest) (commission.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.PlanResponse{}, err
	}

	plan := commission.CommissionPlan{
		ID:        req.ID,
		Name:      strings.TrimSpace(req.Name),
		Role:      req.Role,
		IsDefault: req.IsDefault,
		Brackets:  req.Brackets,
	}

	opts := database.TxOptions{LockKeys: []string{"commission_plan_default:" + string(req.Role)}}
	err := s.tx.WithinTransaction(ctx, opts, func(txCtx context.Context) error {
		saved, err := s.planRepo.Upsert(txCtx, plan)
		if err != nil {
			return fmt.Errorf("failed to save commission plan: %w", err)
		}
		if saved.IsDefault {
			if err := s.planRepo.ClearDefaults(txCtx, saved.Role, saved.ID); err != nil {
				return fmt.Errorf("failed to clear other default plans: %w", err)
			}
		}
		plan = saved
		return nil
	})
	if err != nil {
		return commission.PlanResponse{}, err
	}

	if inv, ok := s.planRepo.(planInvalidator); ok {
		inv.InvalidateAll(ctx)
	}

	if diags := plan.Table().Diagnostics; len(diags) > 0 {
		s.auditService.Raise(ctx, audit.KindMalformedBrackets, "commission_plan", plan.ID, strings.Join(diags, "; "))
	}

	slog.InfoContext(ctx, "Commission plan saved", "plan_id", plan.ID, "role", plan.Role, "is_default", plan.IsDefault)
	return commission.NewPlanResponse(plan), nil
}

// ListPlans implements commission.CommissionService.
func (s *CommissionServiceImpl) ListPlans(ctx context.Context) ([]commission.PlanResponse, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission plans: %w", err)
	}
	out := make([]commission.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, commission.NewPlanResponse(p))
	}
	return out, nil
}

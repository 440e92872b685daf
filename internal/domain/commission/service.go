package commission

import "context"

type CommissionService interface {
	// ResolveCommission computes the commission an employee earns on a
	// settlement amount. Missing employees or plans resolve to zero.
	ResolveCommission(ctx context.Context, employeeID string, amount float64) (Resolution, error)

	// SelectPlan picks the employee's own plan or the role default.
	SelectPlan(ctx context.Context, employeeID string) (PlanSelection, error)

	UpsertPlan(ctx context.Context, req UpsertPlanRequest) (PlanResponse, error)
	ListPlans(ctx context.Context) ([]PlanResponse, error)
}

package commission

import (
	"context"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
)

type PlanRepository interface {
	GetByID(ctx context.Context, id string) (CommissionPlan, error)
	ListDefaultsByRole(ctx context.Context, role employee.Role) ([]CommissionPlan, error)
	List(ctx context.Context) ([]CommissionPlan, error)
	// Upsert inserts when plan.ID is empty and updates otherwise.
	Upsert(ctx context.Context, plan CommissionPlan) (CommissionPlan, error)
	// ClearDefaults unsets IsDefault on every plan of role except exceptID.
	ClearDefaults(ctx context.Context, role employee.Role, exceptID string) error
}

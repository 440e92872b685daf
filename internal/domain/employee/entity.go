package employee

import "time"

type Role string

const (
	RoleWaiter  Role = "WAITER"
	RoleKitchen Role = "KITCHEN"
	RoleCashier Role = "CASHIER"
	RoleManager Role = "MANAGER"
)

var Roles = []string{string(RoleWaiter), string(RoleKitchen), string(RoleCashier), string(RoleManager)}

// Type separates floor staff from field sellers; field sellers settle on
// dispatch/return rather than on a daily cashup.
type Type string

const (
	TypeInside  Type = "INSIDE"
	TypeField   Type = "FIELD"
	TypeKitchen Type = "KITCHEN"
)

type Employee struct {
	ID               string
	Name             string
	Role             Role
	Type             Type
	CommissionPlanID *string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

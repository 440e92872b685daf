package commission

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
)

// CommissionPlan is shared read-only by every employee that references it,
// and by every employee of Role when IsDefault is set.
type CommissionPlan struct {
	ID        string
	Name      string
	Role      employee.Role
	IsDefault bool
	Brackets  json.RawMessage // ordered tier list, flat or rate encoding
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Table parses the stored bracket payload.
func (p CommissionPlan) Table() bracket.Table {
	return bracket.Parse([]byte(p.Brackets))
}

// PlanSource records how a plan was selected for an employee.
type PlanSource string

const (
	PlanSourceEmployee    PlanSource = "employee"
	PlanSourceRoleDefault PlanSource = "role_default"
	PlanSourceNone        PlanSource = "none"
)

// Reasons for a zero commission that is not an error.
const (
	ReasonEmployeeNotFound     = "employee_not_found"
	ReasonNoPlan               = "no_plan"
	ReasonMultipleDefaultPlans = "multiple_default_plans"
	ReasonNonPositiveAmount    = "non_positive_amount"
	ReasonNoBracketMatch       = "no_bracket_match"
)

// PlanSelection is the outcome of choosing a plan for an employee.
type PlanSelection struct {
	Employee    *employee.Employee
	Plan        *CommissionPlan
	Source      PlanSource
	Reason      string
	Diagnostics []string
}

// Resolution is a computed commission plus the context needed to audit it.
type Resolution struct {
	EmployeeID  string
	Amount      float64
	Commission  float64
	RatePct     *float64
	PlanID      *string
	PlanName    *string
	PlanSource  PlanSource
	Match       bracket.Match
	Reason      string
	Diagnostics []string
}

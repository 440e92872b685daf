package commission

import (
	"encoding/json"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
)

type ResolveCommissionRequest struct {
	EmployeeID string `json:"employee_id"`
	Amount     any    `json:"amount"` // number or formatted string
}

func (r *ResolveCommissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !money.IsFinite(money.Parse(r.Amount)) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be a number"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResolveCommissionResponse struct {
	EmployeeID  string        `json:"employee_id"`
	Amount      float64       `json:"amount"`
	Commission  float64       `json:"commission"`
	RatePct     *float64      `json:"rate_pct,omitempty"`
	PlanID      *string       `json:"plan_id,omitempty"`
	PlanName    *string       `json:"plan_name,omitempty"`
	PlanSource  PlanSource    `json:"plan_source"`
	Match       bracket.Match `json:"match"`
	Reason      string        `json:"reason,omitempty"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

func NewResolveCommissionResponse(r Resolution) ResolveCommissionResponse {
	return ResolveCommissionResponse{
		EmployeeID:  r.EmployeeID,
		Amount:      r.Amount,
		Commission:  r.Commission,
		RatePct:     r.RatePct,
		PlanID:      r.PlanID,
		PlanName:    r.PlanName,
		PlanSource:  r.PlanSource,
		Match:       r.Match,
		Reason:      r.Reason,
		Diagnostics: r.Diagnostics,
	}
}

type UpsertPlanRequest struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Role      employee.Role   `json:"role"`
	IsDefault bool            `json:"is_default"`
	Brackets  json.RawMessage `json:"brackets"`
}

func (r *UpsertPlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if validator.IsEmpty(string(r.Role)) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "is required"})
	} else if !validator.IsInSlice(string(r.Role), employee.Roles) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "must be one of WAITER, KITCHEN, CASHIER, MANAGER"})
	}
	if r.ID != "" && !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if bracket.Parse([]byte(r.Brackets)).IsEmpty() {
		errs = append(errs, validator.ValidationError{Field: "brackets", Message: "must contain at least one usable tier"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PlanResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Role      employee.Role    `json:"role"`
	IsDefault bool             `json:"is_default"`
	Encoding  bracket.Encoding `json:"encoding"`
	Brackets  json.RawMessage  `json:"brackets"`
}

func NewPlanResponse(p CommissionPlan) PlanResponse {
	return PlanResponse{
		ID:        p.ID,
		Name:      p.Name,
		Role:      p.Role,
		IsDefault: p.IsDefault,
		Encoding:  p.Table().Encoding,
		Brackets:  p.Brackets,
	}
}

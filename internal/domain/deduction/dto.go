package deduction

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateDeductionRequest struct {
	EmployeeID string          `json:"employee_id"`
	Date       string          `json:"date"` // YYYY-MM-DD
	Amount     any             `json:"amount"`
	Reason     Reason          `json:"reason"`
	Note       *string         `json:"note,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

func (r *CreateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if amount := money.Parse(r.Amount); !money.IsFinite(amount) || amount <= 0 {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}
	if !validator.IsInSlice(string(r.Reason), Reasons) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "must be one of ADVANCE, BREAKAGE, LOSS, OTHER"})
	}
	if len(r.Metadata) > 0 && !json.Valid(r.Metadata) {
		errs = append(errs, validator.ValidationError{Field: "metadata", Message: "must be valid JSON"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateDeductionRequest) ParsedDate() time.Time {
	d, _ := validator.IsValidDate(r.Date)
	return d
}

func (r *CreateDeductionRequest) ParsedAmount() decimal.Decimal {
	return money.Decimal(r.Amount)
}

type DeductionResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     Reason          `json:"reason"`
	Note       *string         `json:"note,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func NewDeductionResponse(d SalaryDeduction) DeductionResponse {
	return DeductionResponse{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		Date:       d.Date.Format("2006-01-02"),
		Amount:     d.Amount,
		Reason:     d.Reason,
		Note:       d.Note,
		Metadata:   d.Metadata,
		CreatedAt:  d.CreatedAt,
	}
}

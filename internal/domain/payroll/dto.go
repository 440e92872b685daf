package payroll

import (
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type RunPayrollRequest struct {
	Year    int  `json:"year"`
	Month   int  `json:"month"`
	Persist bool `json:"persist"`
	// Rerun replaces an already stored run for the period.
	Rerun bool `json:"rerun"`
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPeriod(r.Year, 1) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 9999"})
	}
	if r.Rerun && !r.Persist {
		errs = append(errs, validator.ValidationError{Field: "rerun", Message: "requires persist"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollLineResponse struct {
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      string          `json:"employee_name"`
	Gross             decimal.Decimal `json:"gross"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	DeductionsApplied decimal.Decimal `json:"deductions_applied"`
	CarryForward      decimal.Decimal `json:"carry_forward"`
	NetPay            decimal.Decimal `json:"net_pay"`
	CashupCount       int             `json:"cashup_count"`
	Note              *string         `json:"note,omitempty"`
}

type PayrollRunResponse struct {
	ID                string                `json:"id,omitempty"`
	Year              int                   `json:"year"`
	Month             int                   `json:"month"`
	PeriodStart       string                `json:"period_start"`
	PeriodEnd         string                `json:"period_end"`
	Persisted         bool                  `json:"persisted"`
	TotalGross        decimal.Decimal       `json:"total_gross"`
	TotalApplied      decimal.Decimal       `json:"total_deductions_applied"`
	TotalCarryForward decimal.Decimal       `json:"total_carry_forward"`
	TotalNet          decimal.Decimal       `json:"total_net"`
	Lines             []PayrollLineResponse `json:"lines"`
	Diagnostics       []string              `json:"diagnostics,omitempty"`
}

func NewPayrollRunResponse(run PayrollRun) PayrollRunResponse {
	gross, applied, carry, net := run.Totals()
	lines := make([]PayrollLineResponse, 0, len(run.Lines))
	for _, l := range run.Lines {
		lines = append(lines, PayrollLineResponse{
			EmployeeID:        l.EmployeeID,
			EmployeeName:      l.EmployeeName,
			Gross:             l.Gross,
			TotalOutstanding:  l.TotalOutstanding,
			DeductionsApplied: l.DeductionsApplied,
			CarryForward:      l.CarryForward,
			NetPay:            l.NetPay,
			CashupCount:       l.CashupCount,
			Note:              l.Note,
		})
	}
	return PayrollRunResponse{
		ID:                run.ID,
		Year:              run.Year,
		Month:             run.Month,
		PeriodStart:       run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:         run.PeriodEnd.Format("2006-01-02"),
		Persisted:         run.Persisted,
		TotalGross:        gross,
		TotalApplied:      applied,
		TotalCarryForward: carry,
		TotalNet:          net,
		Lines:             lines,
		Diagnostics:       run.Diagnostics,
	}
}

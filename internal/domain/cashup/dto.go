package cashup

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
)

type RecordCashupRequest struct {
	DailySales    any    `json:"daily_sales,omitempty"`
	CashCollected any    `json:"cash_collected,omitempty"`
	Basis         Basis  `json:"basis,omitempty"`
	Note          string `json:"note,omitempty"`
}

func (r *RecordCashupRequest) Validate() error {
	var errs validator.ValidationErrors

	basis := r.EffectiveBasis()
	if !validator.IsInSlice(string(basis), []string{string(BasisDailySales), string(BasisCashCollected), string(BasisFieldSoldTotal)}) {
		errs = append(errs, validator.ValidationError{Field: "basis", Message: "must be one of daily_sales, cash_collected, field_sold_amount"})
	}
	if r.DailySales != nil && !money.IsFinite(money.Parse(r.DailySales)) {
		errs = append(errs, validator.ValidationError{Field: "daily_sales", Message: "must be a number"})
	}
	if r.CashCollected != nil && !money.IsFinite(money.Parse(r.CashCollected)) {
		errs = append(errs, validator.ValidationError{Field: "cash_collected", Message: "must be a number"})
	}
	switch basis {
	case BasisDailySales:
		if r.DailySales == nil {
			errs = append(errs, validator.ValidationError{Field: "daily_sales", Message: "is required for basis daily_sales"})
		}
	case BasisCashCollected:
		if r.CashCollected == nil {
			errs = append(errs, validator.ValidationError{Field: "cash_collected", Message: "is required for basis cash_collected"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EffectiveBasis defaults an unset basis to daily sales.
func (r *RecordCashupRequest) EffectiveBasis() Basis {
	if r.Basis == "" {
		return BasisDailySales
	}
	return r.Basis
}

type CashupResponse struct {
	ID         string          `json:"id"`
	ShiftID    string          `json:"shift_id"`
	Commission float64         `json:"commission"`
	Snapshot   json.RawMessage `json:"snapshot"`
	CreatedAt  time.Time       `json:"created_at"`
}

func NewCashupResponse(c Cashup) CashupResponse {
	return CashupResponse{
		ID:         c.ID,
		ShiftID:    c.ShiftID,
		Commission: CommissionAmount(c.Snapshot),
		Snapshot:   c.Snapshot,
		CreatedAt:  c.CreatedAt,
	}
}

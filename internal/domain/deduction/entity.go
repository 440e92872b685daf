package deduction

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Reason string

const (
	ReasonAdvance  Reason = "ADVANCE"
	ReasonBreakage Reason = "BREAKAGE"
	ReasonLoss     Reason = "LOSS"
	ReasonOther    Reason = "OTHER"
)

var Reasons = []string{string(ReasonAdvance), string(ReasonBreakage), string(ReasonLoss), string(ReasonOther)}

// SalaryDeduction is an amount owed by an employee, recovered from future
// payroll runs until it is fully applied.
type SalaryDeduction struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Amount     decimal.Decimal
	Reason     Reason
	Note       *string
	Metadata   json.RawMessage
	CreatedAt  time.Time
}

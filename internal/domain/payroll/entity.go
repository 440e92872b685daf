package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRun is the settled payroll of one calendar month. At most one run
// is stored per (Year, Month).
type PayrollRun struct {
	ID          string
	Year        int
	Month       int
	PeriodStart time.Time
	PeriodEnd   time.Time // exclusive
	Lines       []PayrollLine
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Persisted is false for previews.
	Persisted bool
	// Diagnostics counts snapshots whose commission amount was unreadable.
	Diagnostics []string
}

// PayrollLine - one employee's result within a run
type PayrollLine struct {
	ID                string
	RunID             string
	EmployeeID        string
	EmployeeName      string
	Gross             decimal.Decimal
	TotalOutstanding  decimal.Decimal
	DeductionsApplied decimal.Decimal
	CarryForward      decimal.Decimal
	NetPay            decimal.Decimal
	CashupCount       int
	Note              *string
}

// Totals sums the money columns of the run.
func (r PayrollRun) Totals() (gross, applied, carry, net decimal.Decimal) {
	for _, l := range r.Lines {
		gross = gross.Add(l.Gross)
		applied = applied.Add(l.DeductionsApplied)
		carry = carry.Add(l.CarryForward)
		net = net.Add(l.NetPay)
	}
	return gross, applied, carry, net
}

// PeriodBounds returns the UTC half-open interval [start, end) of a month.
func PeriodBounds(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

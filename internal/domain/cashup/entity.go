package cashup

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
)

// Basis names the amount commission was computed on.
type Basis string

const (
	BasisDailySales     Basis = "daily_sales"
	BasisCashCollected  Basis = "cash_collected"
	BasisFieldSoldTotal Basis = "field_sold_amount"
)

// Source values for Snapshot.Meta.
const (
	SourceCashup = "cashup"
)

// Cashup is the end-of-shift settlement record. There is at most one per
// shift and it is never rewritten.
type Cashup struct {
	ID        string
	ShiftID   string
	Snapshot  json.RawMessage
	CreatedAt time.Time
}

// Snapshot is the structure written into Cashup.Snapshot. Readers must not
// rely on it: stored rows predate it and are decoded leniently.
type Snapshot struct {
	Commission CommissionSection `json:"commission"`
	Meta       Meta              `json:"meta"`
}

type CommissionSection struct {
	Amount        float64        `json:"amount"`
	Basis         Basis          `json:"basis"`
	DailySales    *float64       `json:"dailySales,omitempty"`
	CashCollected *float64       `json:"cashCollected,omitempty"`
	SoldAmount    *float64       `json:"soldAmount,omitempty"`
	PlanID        *string        `json:"planId,omitempty"`
	PlanSource    string         `json:"planSource,omitempty"`
	RatePct       *float64       `json:"ratePct,omitempty"`
	MatchedTier   *bracket.Match `json:"matchedTier,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Diagnostics   []string       `json:"diagnostics,omitempty"`
}

type Meta struct {
	EmployeeID string    `json:"employeeId"`
	ShiftID    string    `json:"shiftId"`
	Date       string    `json:"date"`
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recordedAt"`
}

// StoredCommission is a cashup as read back for payroll: the raw snapshot
// plus the owning shift's employee and date.
type StoredCommission struct {
	CashupID   string
	ShiftID    string
	EmployeeID string
	ShiftDate  time.Time
	Snapshot   json.RawMessage
}

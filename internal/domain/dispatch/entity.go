package dispatch

import (
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
)

// FieldDispatch is a quantity of one item handed to a field waiter.
type FieldDispatch struct {
	ID            string
	WaiterID      string
	ItemID        string
	ShiftID       string
	QtyDispatched int
	PriceEach     float64
	Date          time.Time
	CreatedAt     time.Time

	Return *FieldReturn
}

// FieldReturn closes a dispatch. CashCollected is what the waiter handed in
// and may differ from the value of what was sold.
type FieldReturn struct {
	ID            string
	DispatchID    string
	QtyReturned   int
	LossQty       int
	CashCollected *float64
	CreatedAt     time.Time
}

// Settlement is the computed outcome of a dispatch. Sold and commission
// fields stay nil while no return has been recorded.
type Settlement struct {
	DispatchID      string
	WaiterID        string
	ShiftID         string
	Date            time.Time
	QtyDispatched   int
	PriceEach       float64
	GrossSales      float64
	Returned        bool
	QtyReturned     *int
	LossQty         *int
	SoldQty         *int
	SoldAmount      *float64
	CashCollected   *float64
	Commission      *float64
	NegativeSoldQty bool
	Match           *bracket.Match

	PlanID      *string
	PlanSource  string
	Reason      string
	Diagnostics []string
}

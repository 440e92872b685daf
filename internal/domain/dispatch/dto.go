package dispatch

import (
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
)

type RecordDispatchRequest struct {
	WaiterID      string  `json:"waiter_id"`
	ItemID        string  `json:"item_id"`
	Date          string  `json:"date"` // YYYY-MM-DD
	QtyDispatched int     `json:"qty_dispatched"`
	PriceEach     any     `json:"price_each"`
	Route         *string `json:"route,omitempty"`
}

func (r *RecordDispatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WaiterID) {
		errs = append(errs, validator.ValidationError{Field: "waiter_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ItemID) {
		errs = append(errs, validator.ValidationError{Field: "item_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if r.QtyDispatched <= 0 {
		errs = append(errs, validator.ValidationError{Field: "qty_dispatched", Message: "must be greater than 0"})
	}
	if price := money.Parse(r.PriceEach); !money.IsFinite(price) || price < 0 {
		errs = append(errs, validator.ValidationError{Field: "price_each", Message: "must be a non-negative number"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *RecordDispatchRequest) ParsedDate() time.Time {
	d, _ := validator.IsValidDate(r.Date)
	return d
}

type RecordReturnRequest struct {
	QtyReturned   int `json:"qty_returned"`
	LossQty       int `json:"loss_qty"`
	CashCollected any `json:"cash_collected,omitempty"`
}

func (r *RecordReturnRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.QtyReturned < 0 {
		errs = append(errs, validator.ValidationError{Field: "qty_returned", Message: "must not be negative"})
	}
	if r.LossQty < 0 {
		errs = append(errs, validator.ValidationError{Field: "loss_qty", Message: "must not be negative"})
	}
	if r.CashCollected != nil && !money.IsFinite(money.Parse(r.CashCollected)) {
		errs = append(errs, validator.ValidationError{Field: "cash_collected", Message: "must be a number"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DispatchResponse struct {
	ID            string          `json:"id"`
	WaiterID      string          `json:"waiter_id"`
	ItemID        string          `json:"item_id"`
	ShiftID       string          `json:"shift_id"`
	QtyDispatched int             `json:"qty_dispatched"`
	PriceEach     float64         `json:"price_each"`
	Date          string          `json:"date"`
	Return        *ReturnResponse `json:"return,omitempty"`
}

type ReturnResponse struct {
	ID            string   `json:"id"`
	DispatchID    string   `json:"dispatch_id"`
	QtyReturned   int      `json:"qty_returned"`
	LossQty       int      `json:"loss_qty"`
	CashCollected *float64 `json:"cash_collected,omitempty"`
}

func NewDispatchResponse(d FieldDispatch) DispatchResponse {
	resp := DispatchResponse{
		ID:            d.ID,
		WaiterID:      d.WaiterID,
		ItemID:        d.ItemID,
		ShiftID:       d.ShiftID,
		QtyDispatched: d.QtyDispatched,
		PriceEach:     d.PriceEach,
		Date:          d.Date.Format("2006-01-02"),
	}
	if d.Return != nil {
		r := NewReturnResponse(*d.Return)
		resp.Return = &r
	}
	return resp
}

func NewReturnResponse(r FieldReturn) ReturnResponse {
	return ReturnResponse{
		ID:            r.ID,
		DispatchID:    r.DispatchID,
		QtyReturned:   r.QtyReturned,
		LossQty:       r.LossQty,
		CashCollected: r.CashCollected,
	}
}

type SettlementResponse struct {
	DispatchID      string         `json:"dispatch_id"`
	WaiterID        string         `json:"waiter_id"`
	ShiftID         string         `json:"shift_id"`
	Date            string         `json:"date"`
	QtyDispatched   int            `json:"qty_dispatched"`
	PriceEach       float64        `json:"price_each"`
	GrossSales      float64        `json:"gross_sales"`
	Returned        bool           `json:"returned"`
	SoldQty         *int           `json:"sold_qty,omitempty"`
	SoldAmount      *float64       `json:"sold_amount,omitempty"`
	CashCollected   *float64       `json:"cash_collected,omitempty"`
	Commission      *float64       `json:"commission"`
	NegativeSoldQty bool           `json:"negative_sold_qty"`
	Match           *bracket.Match `json:"match,omitempty"`
	PlanID          *string        `json:"plan_id,omitempty"`
	PlanSource      string         `json:"plan_source,omitempty"`
	Reason          string         `json:"reason,omitempty"`
	Diagnostics     []string       `json:"diagnostics,omitempty"`
}

func NewSettlementResponse(s Settlement) SettlementResponse {
	return SettlementResponse{
		DispatchID:      s.DispatchID,
		WaiterID:        s.WaiterID,
		ShiftID:         s.ShiftID,
		Date:            s.Date.Format("2006-01-02"),
		QtyDispatched:   s.QtyDispatched,
		PriceEach:       s.PriceEach,
		GrossSales:      s.GrossSales,
		Returned:        s.Returned,
		SoldQty:         s.SoldQty,
		SoldAmount:      s.SoldAmount,
		CashCollected:   s.CashCollected,
		Commission:      s.Commission,
		NegativeSoldQty: s.NegativeSoldQty,
		Match:           s.Match,
		PlanID:          s.PlanID,
		PlanSource:      s.PlanSource,
		Reason:          s.Reason,
		Diagnostics:     s.Diagnostics,
	}
}

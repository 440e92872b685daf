package dispatch

import (
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
)

// Settle computes the outcome of a dispatch and its optional return.
//
// Without a return only GrossSales is known and the commission stays open.
// With one, sold quantity is dispatched minus returned minus lost. It is not
// clamped: a negative value is reported through NegativeSoldQty and pays no
// commission. Commission is looked up on SoldAmount in the plan's own
// encoding; CashCollected is only reported alongside it.
func Settle(d dispatch.FieldDispatch, r *dispatch.FieldReturn, table bracket.Table) dispatch.Settlement {
	s := dispatch.Settlement{
		DispatchID:    d.ID,
		WaiterID:      d.WaiterID,
		ShiftID:       d.ShiftID,
		Date:          d.Date,
		QtyDispatched: d.QtyDispatched,
		PriceEach:     d.PriceEach,
		GrossSales:    money.Round2(float64(d.QtyDispatched) * d.PriceEach),
	}
	if r == nil {
		return s
	}

	sold := d.QtyDispatched - r.QtyReturned - r.LossQty
	soldAmount := money.Round2(float64(sold) * d.PriceEach)
	returned, loss := r.QtyReturned, r.LossQty

	s.Returned = true
	s.QtyReturned = &returned
	s.LossQty = &loss
	s.SoldQty = &sold
	s.SoldAmount = &soldAmount
	s.CashCollected = r.CashCollected
	s.NegativeSoldQty = sold < 0

	m := table.Lookup(soldAmount)
	commission := m.Commission
	s.Match = &m
	s.Commission = &commission
	return s
}

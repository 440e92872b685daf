package dispatch

import (
	"testing"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flatTable = bracket.Parse([]bracket.FlatTier{
	{Min: 100, Max: 500, Fixed: 100},
	{Min: 501, Max: 750, Fixed: 200},
})

func TestSettle_Example(t *testing.T) {
	d := dispatch.FieldDispatch{ID: "d1", QtyDispatched: 10, PriceEach: 50}
	cash := 300.0

	s := Settle(d, &dispatch.FieldReturn{QtyReturned: 2, LossQty: 1, CashCollected: &cash}, flatTable)

	assert.Equal(t, 500.0, s.GrossSales)
	require.True(t, s.Returned)
	assert.Equal(t, 7, *s.SoldQty)
	assert.Equal(t, 350.0, *s.SoldAmount)
	assert.Equal(t, 300.0, *s.CashCollected, "cash is reported, not substituted")
	require.NotNil(t, s.Commission)
	assert.Equal(t, 100.0, *s.Commission)
	assert.False(t, s.NegativeSoldQty)
}

func TestSettle_NoReturnLeavesCommissionOpen(t *testing.T) {
	s := Settle(dispatch.FieldDispatch{QtyDispatched: 3, PriceEach: 12.25}, nil, flatTable)

	assert.Equal(t, 36.75, s.GrossSales)
	assert.False(t, s.Returned)
	assert.Nil(t, s.SoldQty)
	assert.Nil(t, s.SoldAmount)
	assert.Nil(t, s.Commission)
}

func TestSettle_NegativeSoldQtyIsReportedNotClamped(t *testing.T) {
	d := dispatch.FieldDispatch{QtyDispatched: 5, PriceEach: 100}

	s := Settle(d, &dispatch.FieldReturn{QtyReturned: 4, LossQty: 3}, flatTable)

	assert.True(t, s.NegativeSoldQty)
	assert.Equal(t, -2, *s.SoldQty)
	assert.Equal(t, -200.0, *s.SoldAmount)
	assert.Equal(t, 0.0, *s.Commission)
	assert.False(t, s.Match.Matched)
}

func TestSettle_EmptyTablePaysZero(t *testing.T) {
	d := dispatch.FieldDispatch{QtyDispatched: 10, PriceEach: 50}

	s := Settle(d, &dispatch.FieldReturn{}, bracket.Parse(nil))

	assert.Equal(t, 500.0, *s.SoldAmount)
	assert.Equal(t, 0.0, *s.Commission)
}

// A waiter whose plan uses the rate encoding is settled with that plan's
// rate lookup on the sold amount.
func TestSettle_RatePlanAppliesToSoldAmount(t *testing.T) {
	table := bracket.Parse([]bracket.RateTier{{Min: 0, RatePct: 10, Flat: 5}})
	d := dispatch.FieldDispatch{ID: "d1", QtyDispatched: 10, PriceEach: 50}

	s := Settle(d, &dispatch.FieldReturn{QtyReturned: 2, LossQty: 1}, table)

	require.NotNil(t, s.Commission)
	assert.Equal(t, 40.0, *s.Commission)
	require.NotNil(t, s.Match)
	assert.Equal(t, bracket.EncodingRate, s.Match.Encoding)
}

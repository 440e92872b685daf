package bracket

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestParse_FlatJSON(t *testing.T) {
	table := Parse(`[{"min":501,"max":750,"fixed":200},{"min":100,"max":500,"fixed":100}]`)

	require.Equal(t, EncodingFlat, table.Encoding)
	require.Len(t, table.Flat, 2)
	assert.Equal(t, 100.0, table.Flat[0].Min, "tiers are sorted by min")
	assert.Empty(t, table.Diagnostics)
}

func TestParse_FlatExamples(t *testing.T) {
	table := Parse([]FlatTier{{Min: 100, Max: 500, Fixed: 100}, {Min: 501, Max: 750, Fixed: 200}})

	cases := []struct {
		amount  float64
		matched bool
		want    float64
	}{
		{500, true, 100},
		{750, true, 200},
		{751, false, 0},
		{100, true, 100},
		{99.99, false, 0},
		{0, false, 0},
		{-20, false, 0},
	}
	for _, c := range cases {
		m := table.Lookup(c.amount)
		assert.Equal(t, c.matched, m.Matched, "amount %v", c.amount)
		assert.Equal(t, c.want, m.Commission, "amount %v", c.amount)
	}
}

func TestParse_FlatStringNumbers(t *testing.T) {
	table := Parse(`[{"min":"0","max":"1,000","fixed":"50"},{"min":"1,000","max":"5,000","fixed":"150.5"}]`)

	require.Equal(t, EncodingFlat, table.Encoding)
	assert.Equal(t, 150.5, table.Lookup(1000).Commission)
	assert.Equal(t, 50.0, table.Lookup(999.99).Commission)
}

func TestParse_FlatDiscardsNonFiniteTiers(t *testing.T) {
	table := Parse(`[{"min":0,"max":100,"fixed":"abc"},{"min":100,"max":200,"fixed":10},{"min":null,"max":300,"fixed":5}]`)

	require.Equal(t, EncodingFlat, table.Encoding)
	require.Len(t, table.Flat, 1)
	assert.Len(t, table.Diagnostics, 2)
	assert.False(t, table.Lookup(50).Matched)
	assert.Equal(t, 10.0, table.Lookup(200).Commission)
}

func TestParse_FailSoft(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"not json",
		`{"min":0}`,
		`[1,2,3]`,
		`[]`,
		`[{"min":0,"max":10}]`,
		42,
		[]byte("[{"),
	}
	for _, in := range inputs {
		table := Parse(in)
		assert.True(t, table.IsEmpty(), "input %#v", in)
		assert.NotEmpty(t, table.Diagnostics, "input %#v", in)
		m := table.Lookup(100)
		assert.False(t, m.Matched)
		assert.Equal(t, 0.0, m.Commission)
	}
}

func TestParse_DoubleEncodedJSON(t *testing.T) {
	inner := `[{"min":0,"ratePct":5,"flat":0}]`
	outer, err := json.Marshal(inner)
	require.NoError(t, err)

	table := Parse(outer)
	require.Equal(t, EncodingRate, table.Encoding)
	assert.Equal(t, 5.0, table.Lookup(100).Commission)
}

func TestParse_StructuredObjects(t *testing.T) {
	table := Parse([]map[string]any{
		{"min": 0, "max": 100, "fixed": 1},
		{"min": 100, "max": 200, "fixed": 2},
	})
	require.Equal(t, EncodingFlat, table.Encoding)
	assert.Equal(t, 2.0, table.Lookup(150).Commission)

	table = Parse([]any{map[string]any{"min": 0.0, "ratePct": 10.0}})
	require.Equal(t, EncodingRate, table.Encoding)
	assert.Equal(t, 10.0, table.Lookup(100).Commission)
}

func TestRate_Example(t *testing.T) {
	table := Parse(`[{"min":0,"ratePct":5,"flat":0},{"min":1000,"ratePct":5,"flat":50}]`)
	require.Equal(t, EncodingRate, table.Encoding)

	m := table.Lookup(1500)
	require.True(t, m.Matched)
	assert.Equal(t, 1, m.TierIndex)
	assert.Equal(t, 125.0, m.Commission)
	require.NotNil(t, m.RatePct)
	assert.Equal(t, 5.0, *m.RatePct)

	assert.Equal(t, 25.0, table.Lookup(500).Commission)
}

func TestRate_GreatestMinWins(t *testing.T) {
	// Tiers listed out of order and overlapping.
	table := Parse([]RateTier{
		{Min: 500, Max: ptr(2000), RatePct: 3, Flat: 10},
		{Min: 0, RatePct: 1, Flat: 0},
		{Min: 1000, Max: ptr(1500), RatePct: 2, Flat: 20},
	})

	m := table.Lookup(1200)
	require.True(t, m.Matched)
	assert.Equal(t, 1000.0, m.RateTier.Min)
	assert.Equal(t, 44.0, m.Commission)

	m = table.Lookup(1800)
	assert.Equal(t, 500.0, m.RateTier.Min)

	m = table.Lookup(5000)
	assert.Equal(t, 0.0, m.RateTier.Min)
	assert.Equal(t, 50.0, m.Commission)
}

func TestRate_EqualMinsLastWins(t *testing.T) {
	table := Parse([]RateTier{
		{Min: 0, RatePct: 1},
		{Min: 0, RatePct: 2},
	})
	m := table.Lookup(100)
	assert.Equal(t, 1, m.TierIndex)
	assert.Equal(t, 2.0, m.Commission)
}

func TestRate_DefaultsAndFloor(t *testing.T) {
	table := Parse(`[{"min":0,"max":null,"ratePct":"x"},{"min":10,"max":"","flat":-100}]`)
	require.Equal(t, EncodingRate, table.Encoding)
	require.Len(t, table.Rate, 2)
	assert.Nil(t, table.Rate[0].Max)
	assert.Nil(t, table.Rate[1].Max)

	assert.Equal(t, 0.0, table.Lookup(5).Commission)
	m := table.Lookup(50)
	assert.True(t, m.Matched)
	assert.Equal(t, 0.0, m.Commission, "negative commission is floored at zero")
}

func TestRate_InclusiveMax(t *testing.T) {
	table := Parse([]RateTier{{Min: 0, Max: ptr(100), RatePct: 10}})
	assert.True(t, table.Lookup(100).Matched)
	assert.False(t, table.Lookup(100.01).Matched)
}

func TestLookup_NonPositiveAndNaN(t *testing.T) {
	table := Parse([]RateTier{{Min: -1000, RatePct: 10, Flat: 5}})
	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		m := table.Lookup(amount)
		assert.False(t, m.Matched)
		assert.Equal(t, 0.0, m.Commission)
	}
}

// Contiguous flat tables (each max equals the next min) cover their whole
// range with exactly one tier per amount, the last bound included.
func TestFlat_CoverageAndUniqueness(t *testing.T) {
	tables := [][]FlatTier{
		{{Min: 0, Max: 100, Fixed: 1}},
		{{Min: 1, Max: 500, Fixed: 10}, {Min: 500, Max: 750, Fixed: 20}, {Min: 750, Max: 1000, Fixed: 30}},
		{{Min: 200, Max: 300, Fixed: 3}, {Min: 100, Max: 200, Fixed: 2}, {Min: 300, Max: 10000, Fixed: 4}},
	}

	for ti, tiers := range tables {
		table := Parse(tiers)
		lo, hi, ok := table.Bounds()
		require.True(t, ok)

		for amount := lo; amount <= hi; amount += (hi - lo) / 97 {
			if amount <= 0 {
				continue
			}
			assertSingleMatch(t, table, amount, ti)
		}
		assertSingleMatch(t, table, hi, ti)
		assertSingleMatch(t, table, lo+0.01, ti)
	}
}

func assertSingleMatch(t *testing.T, table Table, amount float64, ti int) {
	t.Helper()
	matches := 0
	last := len(table.Flat) - 1
	for i, tier := range table.Flat {
		if amount >= tier.Min && (amount < tier.Max || (i == last && amount <= tier.Max)) {
			matches++
		}
	}
	assert.Equal(t, 1, matches, "table %d amount %v", ti, amount)

	m := table.Lookup(amount)
	require.True(t, m.Matched, "table %d amount %v", ti, amount)
	assert.GreaterOrEqual(t, amount, m.FlatTier.Min)
	if m.TierIndex == last {
		assert.LessOrEqual(t, amount, m.FlatTier.Max)
	} else {
		assert.Less(t, amount, m.FlatTier.Max)
	}
}

func TestFlat_SharedBoundBelongsToNextTier(t *testing.T) {
	table := Parse([]FlatTier{{Min: 0, Max: 100, Fixed: 1}, {Min: 100, Max: 200, Fixed: 2}})
	m := table.Lookup(100)
	assert.Equal(t, 1, m.TierIndex)
	assert.Equal(t, 2.0, m.Commission)
}

func TestFlat_BoundBeforeGapIsInclusive(t *testing.T) {
	table := Parse([]FlatTier{{Min: 100, Max: 500, Fixed: 100}, {Min: 501, Max: 750, Fixed: 200}})
	assert.Equal(t, 0, table.Lookup(500).TierIndex)
	assert.False(t, table.Lookup(500.5).Matched)
}

func TestLookup_Idempotent(t *testing.T) {
	table := Parse(`[{"min":0,"ratePct":3.5,"flat":1.25}]`)
	first := table.Lookup(1234.56)
	second := table.Lookup(1234.56)
	assert.Equal(t, first, second)
	assert.Equal(t, 44.46, first.Commission)
}

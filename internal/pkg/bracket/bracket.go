// Package bracket parses and queries commission bracket tables.
//
// Two payload encodings are stored in commission plans and both are accepted
// without a version flag; the encoding is inferred from the tier shape:
//
//	flat: [{"min": 100, "max": 500, "fixed": 100}, ...]
//	rate: [{"min": 0, "max": 999, "ratePct": 5, "flat": 0}, ...]
//
// Parsing is fail-soft: malformed payloads produce an empty table plus
// diagnostics, never an error.
package bracket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
)

type Encoding string

const (
	EncodingNone Encoding = "none"
	EncodingFlat Encoding = "flat"
	EncodingRate Encoding = "rate"
)

// FlatTier pays a fixed amount for an inclusive-lower range.
type FlatTier struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Fixed float64 `json:"fixed"`
}

// RateTier pays amount*RatePct/100 + Flat. A nil Max is open-ended.
type RateTier struct {
	Min     float64  `json:"min"`
	Max     *float64 `json:"max,omitempty"`
	RatePct float64  `json:"ratePct"`
	Flat    float64  `json:"flat"`
}

// Table is a validated bracket table in exactly one encoding.
type Table struct {
	Encoding    Encoding
	Flat        []FlatTier
	Rate        []RateTier
	Diagnostics []string
}

// Match is the result of a lookup. Exactly one of FlatTier/RateTier is set
// when Matched is true.
type Match struct {
	Matched    bool      `json:"matched"`
	Encoding   Encoding  `json:"encoding"`
	TierIndex  int       `json:"tier_index"`
	FlatTier   *FlatTier `json:"flat_tier,omitempty"`
	RateTier   *RateTier `json:"rate_tier,omitempty"`
	RatePct    *float64  `json:"rate_pct,omitempty"`
	Commission float64   `json:"commission"`
}

// IsEmpty reports whether the table has no usable tiers.
func (t Table) IsEmpty() bool {
	return len(t.Flat) == 0 && len(t.Rate) == 0
}

// Len returns the number of usable tiers.
func (t Table) Len() int {
	if t.Encoding == EncodingRate {
		return len(t.Rate)
	}
	return len(t.Flat)
}

// Bounds returns the lowest min and the highest max of a flat table.
func (t Table) Bounds() (lo, hi float64, ok bool) {
	if t.Encoding != EncodingFlat || len(t.Flat) == 0 {
		return 0, 0, false
	}
	lo, hi = t.Flat[0].Min, t.Flat[0].Max
	for _, tier := range t.Flat[1:] {
		if tier.Max > hi {
			hi = tier.Max
		}
	}
	return lo, hi, true
}

// Parse builds a Table from a stored payload. Accepted inputs are raw JSON
// ([]byte, json.RawMessage, string), typed tier slices, []map[string]any and
// []any. Anything else, or anything that fails to decode, yields an empty
// table carrying a diagnostic.
func Parse(raw any) Table {
	switch v := raw.(type) {
	case nil:
		return empty("payload is empty")
	case Table:
		return v
	case []FlatTier:
		return fromFlat(v)
	case []RateTier:
		return fromRate(v)
	case json.RawMessage:
		return parseJSON([]byte(v))
	case []byte:
		return parseJSON(v)
	case string:
		return parseJSON([]byte(v))
	case []map[string]any:
		items := make([]any, 0, len(v))
		for _, m := range v {
			items = append(items, m)
		}
		return fromObjects(items)
	case []any:
		return fromObjects(v)
	default:
		return empty(fmt.Sprintf("unsupported payload type %T", raw))
	}
}

func empty(diag string) Table {
	return Table{Encoding: EncodingNone, Diagnostics: []string{diag}}
}

func parseJSON(data []byte) Table {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return empty("payload is empty")
	}

	var decoded any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return empty(fmt.Sprintf("malformed bracket json: %v", err))
	}

	// Some rows hold the list JSON-encoded twice.
	if s, ok := decoded.(string); ok {
		return parseJSON([]byte(s))
	}

	items, ok := decoded.([]any)
	if !ok {
		return empty(fmt.Sprintf("bracket payload is %T, not a list", decoded))
	}
	return fromObjects(items)
}

func fromObjects(items []any) Table {
	var diags []string
	objects := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			diags = append(diags, fmt.Sprintf("tier %d is not an object", i))
			continue
		}
		objects = append(objects, obj)
	}

	switch inferEncoding(objects) {
	case EncodingRate:
		t := rateFromObjects(objects)
		t.Diagnostics = append(diags, t.Diagnostics...)
		return t
	case EncodingFlat:
		t := flatFromObjects(objects)
		t.Diagnostics = append(diags, t.Diagnostics...)
		return t
	default:
		if len(objects) == 0 {
			diags = append(diags, "bracket list is empty")
		} else {
			diags = append(diags, "tiers carry neither fixed nor ratePct/flat")
		}
		return Table{Encoding: EncodingNone, Diagnostics: diags}
	}
}

// inferEncoding picks the encoding of the first tier that declares a payout.
func inferEncoding(objects []map[string]any) Encoding {
	for _, obj := range objects {
		if _, ok := obj["fixed"]; ok {
			return EncodingFlat
		}
		_, hasRate := obj["ratePct"]
		_, hasFlat := obj["flat"]
		if hasRate || hasFlat {
			return EncodingRate
		}
	}
	return EncodingNone
}

func flatFromObjects(objects []map[string]any) Table {
	tiers := make([]FlatTier, 0, len(objects))
	var diags []string
	for i, obj := range objects {
		tier := FlatTier{
			Min:   money.Parse(obj["min"]),
			Max:   money.Parse(obj["max"]),
			Fixed: money.Parse(obj["fixed"]),
		}
		if !money.IsFinite(tier.Min) || !money.IsFinite(tier.Max) || !money.IsFinite(tier.Fixed) {
			diags = append(diags, fmt.Sprintf("flat tier %d discarded: non-numeric min/max/fixed", i))
			continue
		}
		tiers = append(tiers, tier)
	}
	t := fromFlat(tiers)
	t.Diagnostics = append(diags, t.Diagnostics...)
	return t
}

func rateFromObjects(objects []map[string]any) Table {
	tiers := make([]RateTier, 0, len(objects))
	var diags []string
	for i, obj := range objects {
		tier := RateTier{
			Min:     money.Parse(obj["min"]),
			RatePct: money.OrZero(money.Parse(obj["ratePct"])),
			Flat:    money.OrZero(money.Parse(obj["flat"])),
		}
		if !money.IsFinite(tier.Min) {
			diags = append(diags, fmt.Sprintf("rate tier %d discarded: non-numeric min", i))
			continue
		}
		if rawMax, ok := obj["max"]; ok && !isBlank(rawMax) {
			upper := money.Parse(rawMax)
			if !money.IsFinite(upper) {
				diags = append(diags, fmt.Sprintf("rate tier %d discarded: non-numeric max", i))
				continue
			}
			tier.Max = &upper
		}
		tiers = append(tiers, tier)
	}
	t := fromRate(tiers)
	t.Diagnostics = append(diags, t.Diagnostics...)
	return t
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func fromFlat(tiers []FlatTier) Table {
	valid := make([]FlatTier, 0, len(tiers))
	var diags []string
	for i, tier := range tiers {
		if !money.IsFinite(tier.Min) || !money.IsFinite(tier.Max) || !money.IsFinite(tier.Fixed) {
			diags = append(diags, fmt.Sprintf("flat tier %d discarded: non-finite value", i))
			continue
		}
		valid = append(valid, tier)
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Min < valid[j].Min })
	if len(valid) == 0 {
		diags = append(diags, "no usable flat tiers")
		return Table{Encoding: EncodingNone, Diagnostics: diags}
	}
	return Table{Encoding: EncodingFlat, Flat: valid, Diagnostics: diags}
}

func fromRate(tiers []RateTier) Table {
	valid := make([]RateTier, 0, len(tiers))
	var diags []string
	for i, tier := range tiers {
		if !money.IsFinite(tier.Min) || (tier.Max != nil && !money.IsFinite(*tier.Max)) {
			diags = append(diags, fmt.Sprintf("rate tier %d discarded: non-finite bound", i))
			continue
		}
		tier.RatePct = money.OrZero(tier.RatePct)
		tier.Flat = money.OrZero(tier.Flat)
		valid = append(valid, tier)
	}
	if len(valid) == 0 {
		diags = append(diags, "no usable rate tiers")
		return Table{Encoding: EncodingNone, Diagnostics: diags}
	}
	return Table{Encoding: EncodingRate, Rate: valid, Diagnostics: diags}
}

// Lookup resolves the commission for amount. Amounts that are not positive
// never reach the tiers and always pay zero.
func (t Table) Lookup(amount float64) Match {
	m := Match{Encoding: t.Encoding, TierIndex: -1}
	if !money.IsFinite(amount) || amount <= 0 {
		return m
	}

	switch t.Encoding {
	case EncodingFlat:
		return t.lookupFlat(amount, m)
	case EncodingRate:
		return t.lookupRate(amount, m)
	default:
		return m
	}
}

// lookupFlat matches min <= amount < max. An amount equal to a tier's max
// that no tier claims that way falls back to that tier, so the top bound and
// bounds followed by a gap resolve inclusively while a bound shared with the
// next tier still belongs to the next tier only.
func (t Table) lookupFlat(amount float64, m Match) Match {
	for i, tier := range t.Flat {
		if amount >= tier.Min && amount < tier.Max {
			return flatMatch(m, i, tier)
		}
	}
	for i, tier := range t.Flat {
		if amount >= tier.Min && amount == tier.Max {
			return flatMatch(m, i, tier)
		}
	}
	return m
}

func flatMatch(m Match, i int, tier FlatTier) Match {
	m.Matched = true
	m.TierIndex = i
	m.FlatTier = &tier
	m.Commission = money.Round2(tier.Fixed)
	return m
}

// lookupRate picks, among all tiers containing amount, the one with the
// greatest min. On equal mins the later tier wins.
func (t Table) lookupRate(amount float64, m Match) Match {
	best := -1
	for i, tier := range t.Rate {
		if amount < tier.Min {
			continue
		}
		if tier.Max != nil && amount > *tier.Max {
			continue
		}
		if best < 0 || tier.Min >= t.Rate[best].Min {
			best = i
		}
	}
	if best < 0 {
		return m
	}

	tier := t.Rate[best]
	commission := amount*tier.RatePct/100 + tier.Flat
	if commission < 0 {
		commission = 0
	}
	rate := tier.RatePct
	m.Matched = true
	m.TierIndex = best
	m.RateTier = &tier
	m.RatePct = &rate
	m.Commission = money.Round2(commission)
	return m
}

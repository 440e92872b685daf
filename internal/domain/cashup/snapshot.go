package cashup

import (
	"bytes"
	"encoding/json"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
)

// ReadCommissionAmount extracts commission.amount from a stored snapshot.
// ok is false when the snapshot, the section or the amount is missing or
// not numeric; amount is 0 in that case.
func ReadCommissionAmount(raw json.RawMessage) (amount float64, ok bool) {
	var doc struct {
		Commission *struct {
			Amount any `json:"amount"`
		} `json:"commission"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil || doc.Commission == nil {
		return 0, false
	}
	v := money.Parse(doc.Commission.Amount)
	if !money.IsFinite(v) {
		return 0, false
	}
	return v, true
}

// CommissionAmount is ReadCommissionAmount without the flag.
func CommissionAmount(raw json.RawMessage) float64 {
	v, _ := ReadCommissionAmount(raw)
	return v
}

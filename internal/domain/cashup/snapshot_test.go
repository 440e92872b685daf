package cashup

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCommissionAmount(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{"number", `{"commission":{"amount":125.5}}`, 125.5, true},
		{"formatted string", `{"commission":{"amount":"1,250.00"}}`, 1250, true},
		{"zero", `{"commission":{"amount":0}}`, 0, true},
		{"missing amount", `{"commission":{}}`, 0, false},
		{"non numeric", `{"commission":{"amount":"n/a"}}`, 0, false},
		{"missing section", `{"meta":{}}`, 0, false},
		{"malformed", `{`, 0, false},
		{"empty", ``, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ReadCommissionAmount(json.RawMessage(c.raw))
			assert.Equal(t, c.wantOK, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestRecordCashupRequest_Validate(t *testing.T) {
	req := RecordCashupRequest{DailySales: "1,500"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, BasisDailySales, req.EffectiveBasis())

	req = RecordCashupRequest{Basis: BasisCashCollected}
	assert.Error(t, req.Validate())

	req = RecordCashupRequest{Basis: "tips", DailySales: 10}
	assert.Error(t, req.Validate())

	req = RecordCashupRequest{Basis: BasisFieldSoldTotal}
	assert.NoError(t, req.Validate())

	req = RecordCashupRequest{DailySales: "abc"}
	assert.Error(t, req.Validate())
}

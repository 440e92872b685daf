package cashup

import "context"

type CashupService interface {
	// RecordCashup closes the shift if needed and attaches its one cashup.
	RecordCashup(ctx context.Context, shiftID string, req RecordCashupRequest) (CashupResponse, error)
	GetCashup(ctx context.Context, shiftID string) (CashupResponse, error)
}

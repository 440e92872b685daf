package cashup

import (
	"context"
	"time"
)

type CashupRepository interface {
	// Create stores a cashup. A second cashup for the same shift fails with
	// shift.ErrShiftAlreadySettled.
	Create(ctx context.Context, c Cashup) (Cashup, error)
	GetByShiftID(ctx context.Context, shiftID string) (Cashup, error)
	// ListByShiftDate pages through cashups whose shift date lies in
	// [from, to), ordered by cashup id. afterID is the last id of the
	// previous page, empty for the first.
	ListByShiftDate(ctx context.Context, from, to time.Time, afterID string, limit int) ([]StoredCommission, error)
}

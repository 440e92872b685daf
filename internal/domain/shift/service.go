package shift

import (
	"context"
	"time"
)

type ShiftService interface {
	// GetOrCreateEditableShift returns the shift sales for (employee, date)
	// should be recorded against, reopening or creating one as needed.
	GetOrCreateEditableShift(ctx context.Context, date time.Time, employeeID string, meta WaiterMeta) (Shift, error)
	CloseShift(ctx context.Context, shiftID string) (Shift, error)
	GetShift(ctx context.Context, shiftID string) (Shift, error)
}

package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (Shift, error)
	// GetLatest returns the most recently opened shift of the employee on
	// date, or ErrShiftNotFound.
	GetLatest(ctx context.Context, employeeID string, date time.Time) (Shift, error)
	Create(ctx context.Context, s Shift) (Shift, error)
	// Update persists ClosedAt, waiter metadata and the event log.
	Update(ctx context.Context, s Shift) (Shift, error)
}

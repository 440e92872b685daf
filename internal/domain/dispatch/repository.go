package dispatch

import "context"

type DispatchRepository interface {
	Create(ctx context.Context, d FieldDispatch) (FieldDispatch, error)
	// GetByID loads the dispatch with its return, if any.
	GetByID(ctx context.Context, id string) (FieldDispatch, error)
	ListByShiftID(ctx context.Context, shiftID string) ([]FieldDispatch, error)
	// CreateReturn fails with ErrReturnExists on a second return.
	CreateReturn(ctx context.Context, r FieldReturn) (FieldReturn, error)
}

package dispatch

import "context"

type DispatchService interface {
	RecordDispatch(ctx context.Context, req RecordDispatchRequest) (FieldDispatch, error)
	RecordReturn(ctx context.Context, dispatchID string, req RecordReturnRequest) (FieldReturn, error)
	SettleFieldDispatch(ctx context.Context, dispatchID string) (Settlement, error)
	// SettleShift settles every dispatch of a shift.
	SettleShift(ctx context.Context, shiftID string) ([]Settlement, error)
}

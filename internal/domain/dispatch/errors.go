package dispatch

import "errors"

var (
	ErrDispatchNotFound = errors.New("field dispatch not found")
	ErrReturnExists     = errors.New("field dispatch already has a return")
	ErrNotFieldWaiter   = errors.New("employee is not a field waiter")
)

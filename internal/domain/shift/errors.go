package shift

import "errors"

var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftAlreadySettled = errors.New("shift already has a cashup")
	ErrInvalidDate         = errors.New("invalid shift date")

	// ErrConcurrentModification is returned when a lifecycle decision lost a
	// race with another writer. The caller may retry.
	ErrConcurrentModification = errors.New("shift was modified concurrently")
)

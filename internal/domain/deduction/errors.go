package deduction

import "errors"

var (
	ErrDeductionNotFound = errors.New("salary deduction not found")
	ErrInvalidReason     = errors.New("invalid deduction reason")
)

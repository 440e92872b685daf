package cashup

import "errors"

var (
	ErrCashupNotFound = errors.New("cashup not found")
	ErrInvalidBasis   = errors.New("invalid commission basis")
)

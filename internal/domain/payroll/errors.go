package payroll

import "errors"

var (
	ErrPayrollRunNotFound = errors.New("payroll run not found")
	ErrPayrollRunExists   = errors.New("payroll run already exists for this period")
	ErrInvalidPeriod      = errors.New("invalid payroll period")
)

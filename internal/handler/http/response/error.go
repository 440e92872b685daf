package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/auth"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is inactive", nil)

	// Commission domain errors
	case errors.Is(err, commission.ErrPlanNotFound):
		NotFound(w, "Commission plan not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftAlreadySettled):
		Conflict(w, "Shift already settled")
	case errors.Is(err, shift.ErrConcurrentModification):
		Conflict(w, "Concurrent modification, retry the request")
	case errors.Is(err, shift.ErrInvalidDate):
		BadRequest(w, "Invalid date", nil)

	// Cashup domain errors
	case errors.Is(err, cashup.ErrCashupNotFound):
		NotFound(w, "Cashup not found")
	case errors.Is(err, cashup.ErrInvalidBasis):
		BadRequest(w, err.Error(), nil)

	// Dispatch domain errors
	case errors.Is(err, dispatch.ErrDispatchNotFound):
		NotFound(w, "Dispatch not found")
	case errors.Is(err, dispatch.ErrReturnExists):
		Conflict(w, "Return already recorded for dispatch")
	case errors.Is(err, dispatch.ErrNotFieldWaiter):
		BadRequest(w, "Employee is not a field waiter", nil)

	// Deduction domain errors
	case errors.Is(err, deduction.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")
	case errors.Is(err, deduction.ErrInvalidReason):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayrollRunExists):
		Conflict(w, "Payroll run already exists for period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

package deduction

import "context"

type DeductionService interface {
	CreateDeduction(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	ListDeductions(ctx context.Context, employeeID string) ([]DeductionResponse, error)
}

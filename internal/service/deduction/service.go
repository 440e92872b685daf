package deduction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/employee"
)

type DeductionServiceImpl struct {
	deductionRepo deduction.DeductionRepository
	employeeRepo  employee.EmployeeRepository
}

func NewDeductionService(deductionRepo deduction.DeductionRepository, employeeRepo employee.EmployeeRepository) deduction.DeductionService {
	return &DeductionServiceImpl{
		deductionRepo: deductionRepo,
		employeeRepo:  employeeRepo,
	}
}

func (s *DeductionServiceImpl) CreateDeduction(ctx context.Context, req deduction.CreateDeductionRequest) (deduction.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.DeductionResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return deduction.DeductionResponse{}, err
	}

	created, err := s.deductionRepo.Create(ctx, deduction.SalaryDeduction{
		EmployeeID: req.EmployeeID,
		Date:       req.ParsedDate(),
		Amount:     req.ParsedAmount(),
		Reason:     req.Reason,
		Note:       req.Note,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return deduction.DeductionResponse{}, fmt.Errorf("failed to create salary deduction: %w", err)
	}

	slog.InfoContext(ctx, "Salary deduction recorded", "deduction_id", created.ID, "employee_id", created.EmployeeID, "reason", created.Reason)
	return deduction.NewDeductionResponse(created), nil
}

func (s *DeductionServiceImpl) ListDeductions(ctx context.Context, employeeID string) ([]deduction.DeductionResponse, error) {
	items, err := s.deductionRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary deductions: %w", err)
	}
	out := make([]deduction.DeductionResponse, 0, len(items))
	for _, d := range items {
		out = append(out, deduction.NewDeductionResponse(d))
	}
	return out, nil
}

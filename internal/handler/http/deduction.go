package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
)

type DeductionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type deductionHandlerImpl struct {
	deductionService deduction.DeductionService
}

func NewDeductionHandler(deductionService deduction.DeductionService) DeductionHandler {
	return &deductionHandlerImpl{deductionService: deductionService}
}

func (h *deductionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req deduction.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.deductionService.CreateDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deduction recorded", result)
}

func (h *deductionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", map[string]string{"employee_id": "is required"})
		return
	}

	result, err := h.deductionService.ListDeductions(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/payroll"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RunPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Persisted {
		response.Created(w, "Payroll run stored", payroll.NewPayrollRunResponse(result))
		return
	}
	response.Success(w, payroll.NewPayrollRunResponse(result))
}

func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Invalid year", nil)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		response.BadRequest(w, "Invalid month", nil)
		return
	}

	result, err := h.payrollService.GetPayrollRun(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayrollRunResponse(result))
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/commission"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/money"
)

type CommissionHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
	ListPlans(w http.ResponseWriter, r *http.Request)
	UpsertPlan(w http.ResponseWriter, r *http.Request)
}

type commissionHandlerImpl struct {
	commissionService commission.CommissionService
}

func NewCommissionHandler(commissionService commission.CommissionService) CommissionHandler {
	return &commissionHandlerImpl{commissionService: commissionService}
}

func (h *commissionHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req commission.ResolveCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.commissionService.ResolveCommission(r.Context(), req.EmployeeID, money.Parse(req.Amount))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, commission.NewResolveCommissionResponse(result))
}

func (h *commissionHandlerImpl) ListPlans(w http.ResponseWriter, r *http.Request) {
	result, err := h.commissionService.ListPlans(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commissionHandlerImpl) UpsertPlan(w http.ResponseWriter, r *http.Request) {
	var req commission.UpsertPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.commissionService.UpsertPlan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

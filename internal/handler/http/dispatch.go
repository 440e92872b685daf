package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DispatchHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	RecordReturn(w http.ResponseWriter, r *http.Request)
	GetSettlement(w http.ResponseWriter, r *http.Request)
}

type dispatchHandlerImpl struct {
	dispatchService dispatch.DispatchService
}

func NewDispatchHandler(dispatchService dispatch.DispatchService) DispatchHandler {
	return &dispatchHandlerImpl{dispatchService: dispatchService}
}

func (h *dispatchHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req dispatch.RecordDispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.dispatchService.RecordDispatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Dispatch recorded", dispatch.NewDispatchResponse(result))
}

func (h *dispatchHandlerImpl) RecordReturn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Dispatch ID is required", nil)
		return
	}

	var req dispatch.RecordReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.dispatchService.RecordReturn(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Return recorded", dispatch.NewReturnResponse(result))
}

func (h *dispatchHandlerImpl) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Dispatch ID is required", nil)
		return
	}

	result, err := h.dispatchService.SettleFieldDispatch(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, dispatch.NewSettlementResponse(result))
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/cashup"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/dispatch"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	GetOrCreateEditable(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
	RecordCashup(w http.ResponseWriter, r *http.Request)
	GetCashup(w http.ResponseWriter, r *http.Request)
	ListSettlements(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService    shift.ShiftService
	cashupService   cashup.CashupService
	dispatchService dispatch.DispatchService
}

func NewShiftHandler(shiftService shift.ShiftService, cashupService cashup.CashupService, dispatchService dispatch.DispatchService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService:    shiftService,
		cashupService:   cashupService,
		dispatchService: dispatchService,
	}
}

func (h *shiftHandlerImpl) GetOrCreateEditable(w http.ResponseWriter, r *http.Request) {
	var req shift.EditableShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.GetOrCreateEditableShift(r.Context(), req.ParsedDate(), req.EmployeeID, req.Meta())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shift.NewShiftResponse(result))
}

func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	result, err := h.shiftService.GetShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shift.NewShiftResponse(result))
}

func (h *shiftHandlerImpl) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	result, err := h.shiftService.CloseShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift closed", shift.NewShiftResponse(result))
}

func (h *shiftHandlerImpl) RecordCashup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	var req cashup.RecordCashupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.cashupService.RecordCashup(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Cashup recorded", result)
}

func (h *shiftHandlerImpl) GetCashup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	result, err := h.cashupService.GetCashup(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListSettlements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	settlements, err := h.dispatchService.SettleShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]dispatch.SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		result = append(result, dispatch.NewSettlementResponse(s))
	}
	response.Success(w, result)
}

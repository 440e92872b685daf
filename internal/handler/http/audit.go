package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
)

type AuditHandler interface {
	ListFlags(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

func (h *auditHandlerImpl) ListFlags(w http.ResponseWriter, r *http.Request) {
	filter := audit.FlagFilter{Kind: audit.Kind(r.URL.Query().Get("kind"))}

	// Pagination
	filter.Page = 1
	if p := r.URL.Query().Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page <= 0 {
			response.BadRequest(w, "Invalid page", nil)
			return
		}
		filter.Page = page
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			response.BadRequest(w, "Invalid limit", nil)
			return
		}
		filter.Limit = limit
	}

	result, err := h.auditService.ListFlags(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Flags, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

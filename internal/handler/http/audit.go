package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
)

type AuditHandler interface {
	ListEvents(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.EventService
}

func NewAuditHandler(auditService audit.EventService) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

func (h *auditHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entity_type"),
		ActorID:    r.URL.Query().Get("actor_id"),
	}

	page := 1
	limit := 20
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	events, err := h.auditService.ListEvents(r.Context(), companyID, filter, page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

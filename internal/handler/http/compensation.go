package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
)

type CompensationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type compensationHandlerImpl struct {
	compensationService compensation.CompensationService
	kind                compensation.Kind
}

// NewCompensationHandler serves one of the three item pools; the pool kind is
// fixed per route subtree rather than taken from the request body.
func NewCompensationHandler(compensationService compensation.CompensationService, kind compensation.Kind) CompensationHandler {
	return &compensationHandlerImpl{compensationService: compensationService, kind: kind}
}

func (h *compensationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req compensation.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Kind = string(h.kind)

	result, err := h.compensationService.CreateItem(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Compensation item created", result)
}

func (h *compensationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", nil)
		return
	}

	result, err := h.compensationService.GetItem(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *compensationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.compensationService.ListItems(r.Context(), companyID, h.kind, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *compensationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", nil)
		return
	}

	var req compensation.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.compensationService.UpdateItem(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *compensationHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", nil)
		return
	}

	if err := h.compensationService.DeactivateItem(r.Context(), id, companyID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Compensation item deactivated", nil)
}

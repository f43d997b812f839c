package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
)

type TaxHandler interface {
	ListBrackets(w http.ResponseWriter, r *http.Request)
	ReplaceBrackets(w http.ResponseWriter, r *http.Request)
}

type taxHandlerImpl struct {
	taxService tax.TaxService
}

func NewTaxHandler(taxService tax.TaxService) TaxHandler {
	return &taxHandlerImpl{taxService: taxService}
}

func (h *taxHandlerImpl) ListBrackets(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.taxService.ListBrackets(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) ReplaceBrackets(w http.ResponseWriter, r *http.Request) {
	companyID, userID, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req tax.ReplaceBracketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.ReplaceBrackets(r.Context(), companyID, userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax brackets replaced", result)
}

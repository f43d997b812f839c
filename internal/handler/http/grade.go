package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
)

type GradeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	AssignToRole(w http.ResponseWriter, r *http.Request)
	ListMappings(w http.ResponseWriter, r *http.Request)
}

type gradeHandlerImpl struct {
	gradeService grade.GradeService
}

func NewGradeHandler(gradeService grade.GradeService) GradeHandler {
	return &gradeHandlerImpl{gradeService: gradeService}
}

// ========== GRADES ==========

func (h *gradeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req grade.CreateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.gradeService.CreateGrade(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary grade created", result)
}

func (h *gradeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Grade ID is required", nil)
		return
	}

	result, err := h.gradeService.GetGrade(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *gradeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.gradeService.ListGrades(r.Context(), companyID, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *gradeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Grade ID is required", nil)
		return
	}

	var req grade.UpdateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.gradeService.UpdateGrade(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== ROLE MAPPINGS ==========

func (h *gradeHandlerImpl) AssignToRole(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req grade.AssignGradeToRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.gradeService.AssignGradeToRole(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary grade assigned to role", result)
}

func (h *gradeHandlerImpl) ListMappings(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.gradeService.ListMappings(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

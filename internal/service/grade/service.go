package grade

import (
	"context"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
)

type GradeServiceImpl struct {
	gradeRepo grade.GradeRepository
}

func NewGradeService(gradeRepo grade.GradeRepository) grade.GradeService {
	return &GradeServiceImpl{gradeRepo: gradeRepo}
}

func (s *GradeServiceImpl) CreateGrade(ctx context.Context, companyID string, req grade.CreateGradeRequest) (grade.GradeResponse, error) {
	if err := req.Validate(); err != nil {
		return grade.GradeResponse{}, err
	}

	g := grade.SalaryGrade{
		ID:                 uuid.NewString(),
		CompanyID:          companyID,
		Code:               req.Code,
		Name:               req.Name,
		MinGrossSalary:     req.MinGrossSalary,
		MaxGrossSalary:     req.MaxGrossSalary,
		HousingAllowance:   req.HousingAllowance,
		TransportAllowance: req.TransportAllowance,
		MealAllowance:      req.MealAllowance,
		OtherAllowance:     req.OtherAllowance,
		IsActive:           true,
	}
	for _, ca := range req.CustomAllowances {
		g.CustomAllowances = append(g.CustomAllowances, grade.CustomAllowance{Name: ca.Name, Amount: ca.Amount})
	}
	for _, st := range req.Steps {
		g.Steps = append(g.Steps, grade.Step{Step: st.Step, IncrementPercent: st.IncrementPercent, YearsOfServiceThreshold: st.YearsOfServiceThreshold})
	}

	created, err := s.gradeRepo.CreateGrade(ctx, g)
	if err != nil {
		return grade.GradeResponse{}, err
	}
	return grade.ToGradeResponse(created), nil
}

func (s *GradeServiceImpl) GetGrade(ctx context.Context, id string, companyID string) (grade.GradeResponse, error) {
	g, err := s.gradeRepo.GetGradeByID(ctx, id, companyID)
	if err != nil {
		return grade.GradeResponse{}, err
	}
	return grade.ToGradeResponse(g), nil
}

func (s *GradeServiceImpl) ListGrades(ctx context.Context, companyID string, activeOnly bool) ([]grade.GradeResponse, error) {
	grades, err := s.gradeRepo.ListGrades(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]grade.GradeResponse, 0, len(grades))
	for _, g := range grades {
		responses = append(responses, grade.ToGradeResponse(g))
	}
	return responses, nil
}

func (s *GradeServiceImpl) UpdateGrade(ctx context.Context, companyID string, req grade.UpdateGradeRequest) (grade.GradeResponse, error) {
	if err := req.Validate(); err != nil {
		return grade.GradeResponse{}, err
	}

	current, err := s.gradeRepo.GetGradeByID(ctx, req.ID, companyID)
	if err != nil {
		return grade.GradeResponse{}, err
	}
	// A grade referenced by processed payroll is frozen.
	if current.IsLocked {
		return grade.GradeResponse{}, grade.ErrGradeLocked
	}

	// Range stays consistent when only one bound changes.
	min, max := current.MinGrossSalary, current.MaxGrossSalary
	if req.MinGrossSalary != nil {
		min = *req.MinGrossSalary
	}
	if req.MaxGrossSalary != nil {
		max = *req.MaxGrossSalary
	}
	if !min.LessThan(max) {
		return grade.GradeResponse{}, grade.ErrInvalidSalaryRange
	}

	if err := s.gradeRepo.UpdateGrade(ctx, companyID, req); err != nil {
		return grade.GradeResponse{}, err
	}

	updated, err := s.gradeRepo.GetGradeByID(ctx, req.ID, companyID)
	if err != nil {
		return grade.GradeResponse{}, err
	}
	return grade.ToGradeResponse(updated), nil
}

func (s *GradeServiceImpl) AssignGradeToRole(ctx context.Context, companyID string, req grade.AssignGradeToRoleRequest) (grade.MappingResponse, error) {
	if err := req.Validate(); err != nil {
		return grade.MappingResponse{}, err
	}

	// The grade must exist in this company before it is mapped.
	if _, err := s.gradeRepo.GetGradeByID(ctx, req.GradeID, companyID); err != nil {
		return grade.MappingResponse{}, err
	}

	mapping, err := s.gradeRepo.ActivateMapping(ctx, grade.RoleGradeMapping{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		RoleID:    req.RoleID,
		GradeID:   req.GradeID,
		IsActive:  true,
	})
	if err != nil {
		return grade.MappingResponse{}, err
	}
	return grade.ToMappingResponse(mapping), nil
}

func (s *GradeServiceImpl) ListMappings(ctx context.Context, companyID string) ([]grade.MappingResponse, error) {
	mappings, err := s.gradeRepo.ListMappings(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]grade.MappingResponse, 0, len(mappings))
	for _, m := range mappings {
		responses = append(responses, grade.ToMappingResponse(m))
	}
	return responses, nil
}

package grade

import "context"

// GradeService defines business logic for salary grades and role mappings.
type GradeService interface {
	CreateGrade(ctx context.Context, companyID string, req CreateGradeRequest) (GradeResponse, error)
	GetGrade(ctx context.Context, id string, companyID string) (GradeResponse, error)
	ListGrades(ctx context.Context, companyID string, activeOnly bool) ([]GradeResponse, error)

	// UpdateGrade rejects changes to a locked grade.
	UpdateGrade(ctx context.Context, companyID string, req UpdateGradeRequest) (GradeResponse, error)

	// AssignGradeToRole activates a new mapping, deactivating any prior
	// active mapping for the role.
	AssignGradeToRole(ctx context.Context, companyID string, req AssignGradeToRoleRequest) (MappingResponse, error)
	ListMappings(ctx context.Context, companyID string) ([]MappingResponse, error)
}

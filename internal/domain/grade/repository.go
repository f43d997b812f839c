package grade

import "context"

// GradeRepository defines data access for salary grades and role mappings.
// All methods include companyID to prevent cross-company data access.
type GradeRepository interface {
	CreateGrade(ctx context.Context, g SalaryGrade) (SalaryGrade, error)
	GetGradeByID(ctx context.Context, id string, companyID string) (SalaryGrade, error)
	ListGrades(ctx context.Context, companyID string, activeOnly bool) ([]SalaryGrade, error)
	UpdateGrade(ctx context.Context, companyID string, req UpdateGradeRequest) error
	// LockGrade marks a grade immutable once payroll references it.
	LockGrade(ctx context.Context, id string, companyID string) error

	// ActivateMapping deactivates any existing active mapping for the role
	// and inserts the new one in a single transaction.
	ActivateMapping(ctx context.Context, m RoleGradeMapping) (RoleGradeMapping, error)
	GetActiveMappingByRole(ctx context.Context, roleID string, companyID string) (RoleGradeMapping, error)
	ListMappings(ctx context.Context, companyID string) ([]RoleGradeMapping, error)
}

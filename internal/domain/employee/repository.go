package employee

import "context"

// EmployeeRepository defines read-only access to the employee directory.
// All methods include companyID to prevent cross-company data access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string, companyID string) ([]Employee, error)
	// GetActiveOnboarded returns active employees who have completed
	// onboarding, the eligible set for company-wide payroll runs.
	GetActiveOnboarded(ctx context.Context, companyID string) ([]Employee, error)
	GetActiveByDepartments(ctx context.Context, departmentIDs []string, companyID string) ([]Employee, error)
}

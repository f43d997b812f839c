package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is reference data owned by the directory service. The payroll
// engine never writes to it.
type Employee struct {
	ID                  string
	CompanyID           string
	DepartmentID        string
	RoleID              string
	EmployeeCode        string
	FullName            string
	CustomBaseSalary    *decimal.Decimal
	YearsOfService      *int
	SalaryStep          *int
	UseStepCalculation  bool
	EmploymentStatus    EmploymentStatus
	OnboardingCompleted bool
	HireDate            time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

type Department struct {
	ID        string
	CompanyID string
	Name      string
}

type Role struct {
	ID        string
	CompanyID string
	Name      string
}

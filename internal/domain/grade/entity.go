package grade

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryGrade is a banded base-salary range with a fixed allowance bundle and
// seniority steps. A grade becomes locked once a payroll record references it.
type SalaryGrade struct {
	ID                 string
	CompanyID          string
	Code               string
	Name               string
	MinGrossSalary     decimal.Decimal
	MaxGrossSalary     decimal.Decimal
	HousingAllowance   decimal.Decimal
	TransportAllowance decimal.Decimal
	MealAllowance      decimal.Decimal
	OtherAllowance     decimal.Decimal
	CustomAllowances   []CustomAllowance
	Steps              []Step
	IsLocked           bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type CustomAllowance struct {
	Name   string
	Amount decimal.Decimal
}

// Step is a seniority-based increment within a grade. An employee qualifies
// for the highest step whose threshold does not exceed their years of service.
type Step struct {
	Step                    int
	IncrementPercent        decimal.Decimal
	YearsOfServiceThreshold int
}

// RoleGradeMapping binds a role to a salary grade. At most one active mapping
// may exist per role.
type RoleGradeMapping struct {
	ID        string
	CompanyID string
	RoleID    string
	GradeID   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowancesTotal sums the fixed bundle and the named custom allowances.
func (g SalaryGrade) AllowancesTotal() decimal.Decimal {
	total := g.HousingAllowance.
		Add(g.TransportAllowance).
		Add(g.MealAllowance).
		Add(g.OtherAllowance)
	for _, ca := range g.CustomAllowances {
		total = total.Add(ca.Amount)
	}
	return total
}

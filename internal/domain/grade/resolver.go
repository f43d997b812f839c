package grade

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
)

var hundred = decimal.NewFromInt(100)

// SalaryResolution is the outcome of resolving an employee's base salary
// against their salary grade. GradeAllowancesTotal is reported separately and
// is never part of the effective base used for percentage calculations, so
// allowances do not compound on allowances.
type SalaryResolution struct {
	ActualBaseSalary     decimal.Decimal
	StepIncrement        decimal.Decimal
	EffectiveBaseSalary  decimal.Decimal
	AppliedStep          *Step
	GradeAllowancesTotal decimal.Decimal
}

// ResolveSalary computes the effective base salary for an employee. The base
// is the employee's custom override when present, otherwise the grade minimum.
// When step calculation is enabled and the employee's years of service is
// known, the highest step whose threshold is within the years of service adds
// a percentage increment on top of the base.
func ResolveSalary(emp employee.Employee, g SalaryGrade) SalaryResolution {
	base := g.MinGrossSalary
	if emp.CustomBaseSalary != nil {
		base = *emp.CustomBaseSalary
	}

	res := SalaryResolution{
		ActualBaseSalary:     base,
		StepIncrement:        decimal.Zero,
		EffectiveBaseSalary:  base,
		GradeAllowancesTotal: g.AllowancesTotal(),
	}

	if !emp.UseStepCalculation || emp.YearsOfService == nil || *emp.YearsOfService < 0 || len(g.Steps) == 0 {
		return res
	}

	steps := make([]Step, len(g.Steps))
	copy(steps, g.Steps)
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].YearsOfServiceThreshold < steps[j].YearsOfServiceThreshold
	})

	var applied *Step
	for i := range steps {
		if steps[i].YearsOfServiceThreshold <= *emp.YearsOfService {
			applied = &steps[i]
		}
	}
	if applied == nil {
		return res
	}

	res.AppliedStep = applied
	res.StepIncrement = base.Mul(applied.IncrementPercent).Div(hundred)
	res.EffectiveBaseSalary = base.Add(res.StepIncrement)
	return res
}

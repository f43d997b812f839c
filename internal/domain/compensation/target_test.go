package compensation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTarget_ScopeConsistency(t *testing.T) {
	_, err := NewTarget(ScopeCompany, nil, nil)
	assert.NoError(t, err)

	_, err = NewTarget(ScopeCompany, []string{"dept-1"}, nil)
	assert.ErrorIs(t, err, ErrUnexpectedTarget)

	_, err = NewTarget(ScopeDepartment, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTarget)

	_, err = NewTarget(ScopeDepartment, []string{"dept-1"}, []string{"emp-1"})
	assert.ErrorIs(t, err, ErrUnexpectedTarget)

	_, err = NewTarget(ScopeIndividual, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTarget)

	_, err = NewTarget("region", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestNewTarget_DeduplicatesIDs(t *testing.T) {
	target, err := NewIndividualTarget([]string{"emp-1", "emp-2", "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-1", "emp-2"}, target.EmployeeIDs())
}

func TestTarget_Includes(t *testing.T) {
	company := NewCompanyTarget()
	assert.True(t, company.Includes("anyone", "anywhere"))

	dept, err := NewDepartmentTarget([]string{"dept-1"})
	require.NoError(t, err)
	assert.True(t, dept.Includes("emp-1", "dept-1"))
	assert.False(t, dept.Includes("emp-1", "dept-2"))

	indiv, err := NewIndividualTarget([]string{"emp-1"})
	require.NoError(t, err)
	assert.True(t, indiv.Includes("emp-1", "dept-9"))
	assert.False(t, indiv.Includes("emp-2", "dept-9"))
}

func TestDefaultTaxable(t *testing.T) {
	assert.False(t, DefaultTaxable(KindAllowance, "transport"))
	assert.False(t, DefaultTaxable(KindAllowance, "medical"))
	assert.True(t, DefaultTaxable(KindAllowance, "entertainment"))
	assert.False(t, DefaultTaxable(KindBonus, "retention"))
	assert.True(t, DefaultTaxable(KindBonus, "performance"))
	assert.True(t, DefaultTaxable(KindDeduction, "pension"))
}

func TestCreateItemRequest_PAYEConstraints(t *testing.T) {
	req := CreateItemRequest{
		Kind:      string(KindDeduction),
		Name:      "PAYE",
		Category:  CategoryPAYE,
		Scope:     string(ScopeCompany),
		Frequency: string(FrequencyMonthly),
		StartDate: "2025-01-01",
	}
	require.NoError(t, req.Validate())

	item, err := req.ToItem("company-1")
	require.NoError(t, err)
	assert.Equal(t, CalculationTypeTaxBrackets, item.CalculationType)
	assert.Nil(t, item.Amount)
	assert.Equal(t, DeductionTypeStatutory, item.DeductionType)
	assert.True(t, item.IsPAYE())
}

package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

const (
	testCompanyID  = "018f0000-0000-7000-8000-0000000000c0"
	testEmployeeID = "018f0000-0000-7000-8000-0000000000e1"
	testEmployee2  = "018f0000-0000-7000-8000-0000000000e2"
	testDeptID     = "018f0000-0000-7000-8000-0000000000d1"
	testRoleID     = "018f0000-0000-7000-8000-0000000000a1"
	testRole2ID    = "018f0000-0000-7000-8000-0000000000a2"
	testGradeID    = "018f0000-0000-7000-8000-0000000000f1"
	testActorID    = "018f0000-0000-7000-8000-0000000000b1"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type testEnv struct {
	svc          payroll.PayrollService
	payrollRepo  *fakePayrollRepo
	employeeRepo *fakeEmployeeRepo
	gradeRepo    *fakeGradeRepo
	itemRepo     *fakeItemRepo
	bracketRepo  *fakeBracketRepo
	auditRepo    *fakeAuditRepo
}

// newTestEnv seeds one active employee on a NGN 300,000 grade, a taxable and
// a non-taxable fixed allowance, a PAYE deduction and a two-band tax table.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	emp := employee.Employee{
		ID:                  testEmployeeID,
		CompanyID:           testCompanyID,
		DepartmentID:        testDeptID,
		RoleID:              testRoleID,
		EmployeeCode:        "EMP-001",
		FullName:            "Ada Obi",
		EmploymentStatus:    employee.EmploymentStatusActive,
		OnboardingCompleted: true,
		HireDate:            time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	gradeRepo := newFakeGradeRepo()
	gradeRepo.addGrade(grade.SalaryGrade{
		ID:             testGradeID,
		CompanyID:      testCompanyID,
		Code:           "G7",
		Name:           "Senior Officer",
		MinGrossSalary: d("300000"),
		MaxGrossSalary: d("500000"),
		IsActive:       true,
	})
	gradeRepo.mapRole(testRoleID, testGradeID, testCompanyID)

	itemRepo := newFakeItemRepo(
		compensation.Item{
			ID:              "item-allowance-taxable",
			CompanyID:       testCompanyID,
			Kind:            compensation.KindAllowance,
			Name:            "Performance Allowance",
			Category:        "performance",
			Target:          compensation.NewCompanyTarget(),
			CalculationType: compensation.CalculationTypeFixed,
			Amount:          dp("50000"),
			Taxable:         true,
			Frequency:       compensation.FrequencyMonthly,
			StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:          compensation.StatusActive,
		},
		compensation.Item{
			ID:              "item-allowance-transport",
			CompanyID:       testCompanyID,
			Kind:            compensation.KindAllowance,
			Name:            "Transport Allowance",
			Category:        "transport",
			Target:          compensation.NewCompanyTarget(),
			CalculationType: compensation.CalculationTypeFixed,
			Amount:          dp("20000"),
			Taxable:         false,
			Frequency:       compensation.FrequencyMonthly,
			StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:          compensation.StatusActive,
		},
		compensation.Item{
			ID:              "item-paye",
			CompanyID:       testCompanyID,
			Kind:            compensation.KindDeduction,
			Name:            "PAYE",
			Category:        compensation.CategoryPAYE,
			Target:          compensation.NewCompanyTarget(),
			CalculationType: compensation.CalculationTypeTaxBrackets,
			Taxable:         true,
			Frequency:       compensation.FrequencyMonthly,
			DeductionType:   compensation.DeductionTypeStatutory,
			StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:          compensation.StatusActive,
		},
	)

	bracketRepo := &fakeBracketRepo{brackets: []tax.Bracket{
		{Order: 1, CompanyID: testCompanyID, MinAmount: d("0"), MaxAmount: dp("300000"), TaxRate: d("7"), AdditionalTax: d("0")},
		{Order: 2, CompanyID: testCompanyID, MinAmount: d("300000"), MaxAmount: dp("600000"), TaxRate: d("11"), AdditionalTax: d("21000")},
	}}

	env := &testEnv{
		payrollRepo:  newFakePayrollRepo(),
		employeeRepo: newFakeEmployeeRepo(emp),
		gradeRepo:    gradeRepo,
		itemRepo:     itemRepo,
		bracketRepo:  bracketRepo,
		auditRepo:    &fakeAuditRepo{},
	}
	env.svc = NewPayrollService(
		env.payrollRepo,
		env.employeeRepo,
		env.gradeRepo,
		env.itemRepo,
		env.bracketRepo,
		env.auditRepo,
		testLogger(),
	)
	return env
}

func calcRequest(markAsUsed bool) payroll.CalculateEmployeeRequest {
	return payroll.CalculateEmployeeRequest{
		EmployeeID: testEmployeeID,
		Month:      8,
		Year:       2025,
		Frequency:  string(compensation.FrequencyMonthly),
		MarkAsUsed: markAsUsed,
	}
}

func TestCalculateEmployeePayroll_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	bd, err := env.svc.CalculateEmployeePayroll(context.Background(), testCompanyID, testActorID, calcRequest(false))
	require.NoError(t, err)

	assert.Equal(t, "Ada Obi", bd.EmployeeName)
	assert.Equal(t, "G7", bd.GradeCode)
	assert.True(t, bd.Salary.EffectiveBaseSalary.Equal(d("300000")))
	assert.True(t, bd.Totals.TotalAllowances.Equal(d("70000")))

	// Taxable income = base 300,000 + taxable allowance 50,000. Annualized
	// 4,200,000 overruns the two-band table, so the annual tax is the full
	// tax of both bands: 21,000 + 33,000 = 54,000, or 4,500 per month.
	assert.True(t, bd.Totals.TaxableIncome.Equal(d("350000")), "taxable income = %s", bd.Totals.TaxableIncome)
	assert.True(t, bd.Totals.PAYEAmount.Equal(d("4500")), "paye = %s", bd.Totals.PAYEAmount)

	assert.True(t, bd.Totals.GrossPay.Equal(d("370000")), "gross = %s", bd.Totals.GrossPay)
	assert.True(t, bd.Totals.TotalDeductions.Equal(d("4500")))
	assert.True(t, bd.Totals.NetPay.Equal(d("365500")), "net = %s", bd.Totals.NetPay)

	// The PAYE line carries the resolved amount, not zero.
	require.Len(t, bd.Deductions, 1)
	assert.Equal(t, "item-paye", bd.Deductions[0].ItemID)
	assert.True(t, bd.Deductions[0].Amount.Equal(d("4500")))
}

func TestCalculateEmployeePayroll_PreviewIsPure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, calcRequest(false))
	require.NoError(t, err)
	second, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, calcRequest(false))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// No usage flips, no audit events, no records.
	item, err := env.itemRepo.GetByID(ctx, "item-allowance-taxable", testCompanyID)
	require.NoError(t, err)
	assert.False(t, item.IsUsed)
	assert.Zero(t, item.UsageCount)
	assert.Empty(t, env.auditRepo.events)
	assert.Empty(t, env.payrollRepo.records)
}

func TestCalculateEmployeePayroll_MarkAsUsed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bd, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, calcRequest(true))
	require.NoError(t, err)
	require.Len(t, bd.AppliedItemIDs(), 3)

	for _, id := range bd.AppliedItemIDs() {
		item, err := env.itemRepo.GetByID(ctx, id, testCompanyID)
		require.NoError(t, err)
		assert.True(t, item.IsUsed, "item %s not marked used", id)
		assert.Equal(t, 1, item.UsageCount)
		assert.Equal(t, int64(1), item.UsageVersion)
		require.NotNil(t, item.LastUsedDate)
		assert.Equal(t, time.August, item.LastUsedDate.Month())
	}

	consumed := env.auditRepo.byAction(audit.ActionItemConsumed)
	assert.Len(t, consumed, 3)

	// The same period now sees the monthly items as already consumed.
	bd2, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, calcRequest(false))
	require.NoError(t, err)
	assert.Empty(t, bd2.Allowances)
	assert.Empty(t, bd2.Deductions)
	assert.True(t, bd2.Totals.GrossPay.Equal(d("300000")))

	// The following month they are eligible again.
	nextMonth := calcRequest(false)
	nextMonth.Month = 9
	bd3, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, nextMonth)
	require.NoError(t, err)
	assert.Len(t, bd3.Allowances, 2)
}

func TestCalculateEmployeePayroll_NoActiveMapping(t *testing.T) {
	env := newTestEnv(t)
	emp := env.employeeRepo.employees[testEmployeeID]
	emp.RoleID = testRole2ID
	env.employeeRepo.employees[testEmployeeID] = emp

	_, err := env.svc.CalculateEmployeePayroll(context.Background(), testCompanyID, testActorID, calcRequest(false))
	assert.ErrorIs(t, err, payroll.ErrNoActiveGradeMapping)
}

func TestCalculateEmployeePayroll_EmployeeNotFound(t *testing.T) {
	env := newTestEnv(t)
	req := calcRequest(false)
	req.EmployeeID = testEmployee2

	_, err := env.svc.CalculateEmployeePayroll(context.Background(), testCompanyID, testActorID, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCalculateEmployeePayroll_InvalidRequest(t *testing.T) {
	env := newTestEnv(t)
	req := calcRequest(false)
	req.Month = 13

	_, err := env.svc.CalculateEmployeePayroll(context.Background(), testCompanyID, testActorID, req)
	assert.Error(t, err)
}

func TestCalculateEmployeePayroll_PercentageDeduction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 8% pension on base salary: 24,000 on a 300,000 base.
	_, err := env.itemRepo.Create(ctx, compensation.Item{
		ID:              "item-pension",
		CompanyID:       testCompanyID,
		Kind:            compensation.KindDeduction,
		Name:            "Pension",
		Category:        "pension",
		Target:          compensation.NewCompanyTarget(),
		CalculationType: compensation.CalculationTypePercentage,
		PercentageBase:  compensation.PercentageBaseSalary,
		Amount:          dp("8"),
		Taxable:         true,
		Frequency:       compensation.FrequencyMonthly,
		DeductionType:   compensation.DeductionTypeStatutory,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:          compensation.StatusActive,
	})
	require.NoError(t, err)

	bd, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, calcRequest(false))
	require.NoError(t, err)

	// Deductions = pension 24,000 + PAYE 4,500.
	assert.True(t, bd.Totals.TotalDeductions.Equal(d("28500")), "deductions = %s", bd.Totals.TotalDeductions)
	assert.True(t, bd.Totals.NetPay.Equal(d("341500")), "net = %s", bd.Totals.NetPay)
}

func TestCalculateEmployeePayroll_OneTimeBonusGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.itemRepo.Create(ctx, compensation.Item{
		ID:              "item-signing-bonus",
		CompanyID:       testCompanyID,
		Kind:            compensation.KindBonus,
		Name:            "Signing Bonus",
		Category:        "signing",
		Target:          compensation.NewCompanyTarget(),
		CalculationType: compensation.CalculationTypeFixed,
		Amount:          dp("100000"),
		Taxable:         true,
		Frequency:       compensation.FrequencyOneTime,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:          compensation.StatusActive,
	})
	require.NoError(t, err)

	// A monthly run admits the one-time bonus.
	bd, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, calcRequest(true))
	require.NoError(t, err)
	require.Len(t, bd.Bonuses, 1)
	assert.True(t, bd.Totals.TotalBonuses.Equal(d("100000")))

	// Once consumed it never comes back, whatever the period.
	for _, month := range []int{9, 10, 12} {
		req := calcRequest(false)
		req.Month = month
		later, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, req)
		require.NoError(t, err)
		assert.Empty(t, later.Bonuses, "month %d", month)
	}
}

func TestCalculateEmployeePayroll_StepIncrement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	years := 6
	emp := env.employeeRepo.employees[testEmployeeID]
	emp.YearsOfService = &years
	emp.UseStepCalculation = true
	env.employeeRepo.employees[testEmployeeID] = emp

	g := env.gradeRepo.grades[testGradeID]
	g.Steps = []grade.Step{
		{Step: 1, IncrementPercent: d("0"), YearsOfServiceThreshold: 0},
		{Step: 2, IncrementPercent: d("10"), YearsOfServiceThreshold: 2},
		{Step: 3, IncrementPercent: d("20"), YearsOfServiceThreshold: 5},
	}
	env.gradeRepo.grades[testGradeID] = g

	bd, err := env.svc.CalculateEmployeePayroll(ctx, testCompanyID, testActorID, calcRequest(false))
	require.NoError(t, err)

	require.NotNil(t, bd.Salary.AppliedStep)
	assert.Equal(t, 3, *bd.Salary.AppliedStep)
	assert.True(t, bd.Salary.StepIncrement.Equal(d("60000")))
	assert.True(t, bd.Salary.EffectiveBaseSalary.Equal(d("360000")))
}

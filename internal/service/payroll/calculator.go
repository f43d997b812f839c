package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

// calcOutcome bundles a finished calculation with the item state needed for
// usage marking and the grade needed for locking.
type calcOutcome struct {
	breakdown payroll.Breakdown
	applied   []compensation.Item
	grade     grade.SalaryGrade
	scope     compensation.Scope
}

func (s *PayrollServiceImpl) CalculateEmployeePayroll(ctx context.Context, companyID string, actorID string, req payroll.CalculateEmployeeRequest) (payroll.Breakdown, error) {
	if err := req.Validate(); err != nil {
		return payroll.Breakdown{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	period := compensation.Period{Month: req.Month, Year: req.Year}
	freq := compensation.Frequency(req.Frequency)

	outcome, err := s.calculate(ctx, companyID, emp, period, freq, compensation.ScopeIndividual)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	if req.MarkAsUsed {
		if err := s.markItemsUsed(ctx, "", outcome); err != nil {
			return payroll.Breakdown{}, err
		}
		s.auditItemsConsumed(ctx, companyID, actorID, "", outcome)
	}

	return outcome.breakdown, nil
}

// calculate runs the full per-employee orchestration: duplicate check, grade
// resolution, pool aggregation, tax resolution and totals. It performs no
// writes.
func (s *PayrollServiceImpl) calculate(ctx context.Context, companyID string, emp employee.Employee, period compensation.Period, freq compensation.Frequency, scope compensation.Scope) (calcOutcome, error) {
	_, err := s.payrollRepo.FindRecord(ctx, companyID, emp.ID, period.Month, period.Year, freq, scope)
	if err == nil {
		return calcOutcome{}, payroll.ErrPayrollRecordAlreadyExists
	}
	if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
		return calcOutcome{}, fmt.Errorf("failed to check existing payroll record: %w", err)
	}

	mapping, err := s.gradeRepo.GetActiveMappingByRole(ctx, emp.RoleID, companyID)
	if err != nil {
		if errors.Is(err, grade.ErrMappingNotFound) {
			return calcOutcome{}, payroll.ErrNoActiveGradeMapping
		}
		return calcOutcome{}, fmt.Errorf("failed to get role grade mapping: %w", err)
	}

	g, err := s.gradeRepo.GetGradeByID(ctx, mapping.GradeID, companyID)
	if err != nil {
		return calcOutcome{}, fmt.Errorf("failed to get salary grade: %w", err)
	}

	resolution := grade.ResolveSalary(emp, g)

	allowanceItems, err := s.itemRepo.ListByKind(ctx, companyID, compensation.KindAllowance, true)
	if err != nil {
		return calcOutcome{}, fmt.Errorf("failed to list allowances: %w", err)
	}
	bonusItems, err := s.itemRepo.ListByKind(ctx, companyID, compensation.KindBonus, true)
	if err != nil {
		return calcOutcome{}, fmt.Errorf("failed to list bonuses: %w", err)
	}
	deductionItems, err := s.itemRepo.ListByKind(ctx, companyID, compensation.KindDeduction, true)
	if err != nil {
		return calcOutcome{}, fmt.Errorf("failed to list deductions: %w", err)
	}

	ref := compensation.EmployeeRef{ID: emp.ID, DepartmentID: emp.DepartmentID}

	// Pools are processed allowances -> bonuses -> deductions; the running
	// gross grows between pools so gross-based percentages see everything
	// accumulated before their pool.
	runningGross := resolution.EffectiveBaseSalary.Add(resolution.GradeAllowancesTotal)
	allowances := aggregatePool(allowanceItems, ref, period, freq, resolution.EffectiveBaseSalary, runningGross)
	runningGross = runningGross.Add(allowances.Total)
	bonuses := aggregatePool(bonusItems, ref, period, freq, resolution.EffectiveBaseSalary, runningGross)
	runningGross = runningGross.Add(bonuses.Total)
	deductions := aggregatePool(deductionItems, ref, period, freq, resolution.EffectiveBaseSalary, runningGross)

	taxableIncome := resolution.EffectiveBaseSalary.
		Add(allowances.Taxable).
		Add(bonuses.Taxable)

	brackets, err := s.bracketRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return calcOutcome{}, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	taxResult := tax.Resolve(taxableIncome, brackets, freq)

	// PAYE is excluded from the generic pool totals; its line amount is the
	// resolver's period tax, applied only when an eligible PAYE item exists.
	payeAmount := decimal.Zero
	for i := range deductions.Applied {
		if deductions.Applied[i].IsPAYE() {
			payeAmount = taxResult.PeriodTax
			deductions.Lines[i].Amount = payeAmount
		}
	}

	totalDeductions := deductions.Total.Add(payeAmount)
	grossPay := runningGross
	netPay := grossPay.Sub(totalDeductions)

	var appliedStep *int
	if resolution.AppliedStep != nil {
		step := resolution.AppliedStep.Step
		appliedStep = &step
	}

	bd := payroll.Breakdown{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		EmployeeName: emp.FullName,
		GradeID:      g.ID,
		GradeCode:    g.Code,
		PeriodMonth:  period.Month,
		PeriodYear:   period.Year,
		Frequency:    freq,
		Salary: payroll.SalaryDetail{
			ActualBaseSalary:    resolution.ActualBaseSalary,
			StepIncrement:       resolution.StepIncrement,
			AppliedStep:         appliedStep,
			EffectiveBaseSalary: resolution.EffectiveBaseSalary,
			GradeAllowances:     resolution.GradeAllowancesTotal,
		},
		Allowances: allowances.Lines,
		Bonuses:    bonuses.Lines,
		Deductions: deductions.Lines,
		Tax:        taxResult,
		Totals: payroll.Totals{
			TotalAllowances: allowances.Total,
			TotalBonuses:    bonuses.Total,
			TotalDeductions: totalDeductions,
			PAYEAmount:      payeAmount,
			TaxableIncome:   taxableIncome,
			GrossPay:        grossPay,
			NetPay:          netPay,
		},
	}

	applied := make([]compensation.Item, 0, len(allowances.Applied)+len(bonuses.Applied)+len(deductions.Applied))
	applied = append(applied, allowances.Applied...)
	applied = append(applied, bonuses.Applied...)
	applied = append(applied, deductions.Applied...)

	return calcOutcome{breakdown: bd, applied: applied, grade: g, scope: scope}, nil
}

type itemConsumedDetail struct {
	EmployeeID string          `json:"employee_id"`
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Frequency  string          `json:"frequency"`
	Scope      string          `json:"scope"`
	PayrollID  string          `json:"payroll_id,omitempty"`
}

// markItemsUsed flips the usage fields of every applied item through the
// repository's compare-and-swap. The usage date is pinned to the payroll
// period rather than the wall clock so the frequency-granular re-eligibility
// comparison works for late commits. On a mid-sequence failure the marks this
// attempt already applied are restored, so no item stays consumed for a
// record that was never written.
func (s *PayrollServiceImpl) markItemsUsed(ctx context.Context, payrollID string, outcome calcOutcome) error {
	bd := outcome.breakdown
	period := compensation.Period{Month: bd.PeriodMonth, Year: bd.PeriodYear}
	usedAt := period.FirstDay()

	for i, item := range outcome.applied {
		if err := s.itemRepo.MarkUsed(ctx, item.ID, item.UsageVersion, usedAt, payrollID); err != nil {
			s.releaseMarkedItems(ctx, outcome.applied[:i])
			return fmt.Errorf("failed to mark item %s used: %w", item.ID, err)
		}
	}

	return nil
}

// releaseMarkedItems reverts this attempt's usage marks to their pre-mark
// snapshots. A release that fails is logged and the remaining items are
// still released.
func (s *PayrollServiceImpl) releaseMarkedItems(ctx context.Context, marked []compensation.Item) {
	for _, item := range marked {
		if err := s.itemRepo.RestoreUsage(ctx, item); err != nil {
			s.logger.Error("failed to restore item usage after aborted commit",
				"item_id", item.ID, "error", err)
		}
	}
}

// auditItemsConsumed emits one audit event per consumed item. Callers invoke
// it only once the marks are final.
func (s *PayrollServiceImpl) auditItemsConsumed(ctx context.Context, companyID, actorID, payrollID string, outcome calcOutcome) {
	bd := outcome.breakdown

	amounts := make(map[string]decimal.Decimal)
	for _, lines := range [][]payroll.LineItem{bd.Allowances, bd.Bonuses, bd.Deductions} {
		for _, li := range lines {
			amounts[li.ItemID] = li.Amount
		}
	}

	for _, item := range outcome.applied {
		s.recordAudit(ctx, audit.Event{
			ID:         uuid.NewString(),
			CompanyID:  companyID,
			ActorID:    actorID,
			Action:     audit.ActionItemConsumed,
			EntityType: "compensation_item",
			EntityID:   item.ID,
		}, itemConsumedDetail{
			EmployeeID: bd.EmployeeID,
			ItemID:     item.ID,
			ItemName:   item.Name,
			Amount:     amounts[item.ID],
			Month:      bd.PeriodMonth,
			Year:       bd.PeriodYear,
			Frequency:  string(bd.Frequency),
			Scope:      string(outcome.scope),
			PayrollID:  payrollID,
		})
	}
}

// recordAudit writes one audit event, logging instead of failing the payroll
// operation when the sink is unavailable.
func (s *PayrollServiceImpl) recordAudit(ctx context.Context, event audit.Event, detail any) {
	if detail != nil {
		payload, err := json.Marshal(detail)
		if err != nil {
			s.logger.Error("failed to marshal audit detail", "action", event.Action, "error", err)
			return
		}
		event.Detail = payload
	}

	if err := s.auditRepo.Record(ctx, event); err != nil {
		s.logger.Error("failed to record audit event", "action", event.Action, "entity_id", event.EntityID, "error", err)
	}
}

package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// ========== PREVIEW ==========

func (s *PayrollServiceImpl) PreviewPayroll(ctx context.Context, companyID string, req payroll.RunPayrollRequest) (payroll.PreviewSummary, error) {
	if err := req.Validate(); err != nil {
		return payroll.PreviewSummary{}, err
	}

	target, err := req.Target()
	if err != nil {
		return payroll.PreviewSummary{}, err
	}

	employees, err := s.resolveEmployees(ctx, companyID, target)
	if err != nil {
		return payroll.PreviewSummary{}, err
	}

	period := req.Period()
	freq := compensation.Frequency(req.Frequency)

	summary := payroll.PreviewSummary{
		TotalEmployees:  len(employees),
		Errors:          []payroll.ProcessingError{},
		Breakdowns:      []payroll.Breakdown{},
		TotalGrossPay:   decimal.Zero,
		TotalNetPay:     decimal.Zero,
		TotalDeductions: decimal.Zero,
	}

	for _, emp := range employees {
		outcome, err := s.calculate(ctx, companyID, emp, period, freq, target.Scope())
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, payroll.ProcessingError{
				EmployeeID:   emp.ID,
				EmployeeCode: emp.EmployeeCode,
				Step:         failureStep(err),
				Message:      err.Error(),
			})
			continue
		}

		summary.Successful++
		summary.Breakdowns = append(summary.Breakdowns, outcome.breakdown)
		summary.TotalGrossPay = summary.TotalGrossPay.Add(outcome.breakdown.Totals.GrossPay)
		summary.TotalNetPay = summary.TotalNetPay.Add(outcome.breakdown.Totals.NetPay)
		summary.TotalDeductions = summary.TotalDeductions.Add(outcome.breakdown.Totals.TotalDeductions)
	}

	return summary, nil
}

// ========== COMMIT ==========

func (s *PayrollServiceImpl) CommitPayroll(ctx context.Context, companyID string, actorID string, req payroll.RunPayrollRequest) (payroll.ProcessingSummary, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProcessingSummary{}, err
	}

	target, err := req.Target()
	if err != nil {
		return payroll.ProcessingSummary{}, err
	}

	employees, err := s.resolveEmployees(ctx, companyID, target)
	if err != nil {
		return payroll.ProcessingSummary{}, err
	}

	period := req.Period()
	freq := compensation.Frequency(req.Frequency)
	batchID := uuid.NewString()

	summary := payroll.ProcessingSummary{
		BatchID:         batchID,
		TotalEmployees:  len(employees),
		Errors:          []payroll.ProcessingError{},
		TotalGrossPay:   decimal.Zero,
		TotalNetPay:     decimal.Zero,
		TotalDeductions: decimal.Zero,
	}

	for _, emp := range employees {
		rec, step, err := s.commitEmployee(ctx, companyID, actorID, batchID, emp, period, freq, target.Scope())
		if err != nil && errors.Is(err, compensation.ErrUsageConflict) {
			// A concurrent run consumed one of the items first; retry once
			// with fresh usage state.
			rec, step, err = s.commitEmployee(ctx, companyID, actorID, batchID, emp, period, freq, target.Scope())
		}
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
				summary.Duplicates++
				continue
			}
			summary.Failed++
			summary.Errors = append(summary.Errors, payroll.ProcessingError{
				EmployeeID:   emp.ID,
				EmployeeCode: emp.EmployeeCode,
				Step:         step,
				Message:      err.Error(),
			})
			s.logger.Warn("payroll commit failed for employee",
				"employee_id", emp.ID, "step", step, "error", err)
			continue
		}

		summary.Successful++
		summary.TotalGrossPay = summary.TotalGrossPay.Add(rec.GrossPay)
		summary.TotalNetPay = summary.TotalNetPay.Add(rec.NetPay)
		summary.TotalDeductions = summary.TotalDeductions.Add(rec.TotalDeductions)
	}

	s.recordAudit(ctx, audit.Event{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		Action:     audit.ActionPayrollCommit,
		EntityType: "payroll_batch",
		EntityID:   batchID,
	}, summary)

	return summary, nil
}

// commitEmployee calculates, marks item usage with the record's identity and
// persists one immutable record. The returned step names where a failure
// happened for the batch summary.
func (s *PayrollServiceImpl) commitEmployee(ctx context.Context, companyID, actorID, batchID string, emp employee.Employee, period compensation.Period, freq compensation.Frequency, scope compensation.Scope) (payroll.Record, string, error) {
	outcome, err := s.calculate(ctx, companyID, emp, period, freq, scope)
	if err != nil {
		return payroll.Record{}, failureStep(err), err
	}

	recordID := uuid.NewString()
	if err := s.markItemsUsed(ctx, recordID, outcome); err != nil {
		return payroll.Record{}, payroll.StepMarkUsage, err
	}

	bd := outcome.breakdown
	rec := payroll.Record{
		ID:                  recordID,
		CompanyID:           companyID,
		EmployeeID:          emp.ID,
		PeriodMonth:         period.Month,
		PeriodYear:          period.Year,
		Frequency:           freq,
		Scope:               scope,
		GradeID:             bd.GradeID,
		BaseSalary:          bd.Salary.ActualBaseSalary,
		StepIncrement:       bd.Salary.StepIncrement,
		EffectiveBaseSalary: bd.Salary.EffectiveBaseSalary,
		GradeAllowances:     bd.Salary.GradeAllowances,
		TotalAllowances:     bd.Totals.TotalAllowances,
		TotalBonuses:        bd.Totals.TotalBonuses,
		TotalDeductions:     bd.Totals.TotalDeductions,
		PAYEAmount:          bd.Totals.PAYEAmount,
		TaxableIncome:       bd.Totals.TaxableIncome,
		GrossPay:            bd.Totals.GrossPay,
		NetPay:              bd.Totals.NetPay,
		Breakdown:           bd,
		CreatedBy:           actorID,
		ProcessedBy:         actorID,
		BatchID:             &batchID,
	}

	created, err := s.payrollRepo.CreateRecord(ctx, rec)
	if err != nil {
		// The marks reference a record that was never written; hand the
		// items back before reporting the failure.
		s.releaseMarkedItems(ctx, outcome.applied)
		return payroll.Record{}, payroll.StepPersist, err
	}

	s.auditItemsConsumed(ctx, companyID, actorID, recordID, outcome)

	// First payroll reference freezes the grade.
	if !outcome.grade.IsLocked {
		if err := s.gradeRepo.LockGrade(ctx, outcome.grade.ID, companyID); err != nil {
			s.logger.Error("failed to lock salary grade",
				"grade_id", outcome.grade.ID, "error", err)
		} else {
			s.recordAudit(ctx, audit.Event{
				ID:         uuid.NewString(),
				CompanyID:  companyID,
				ActorID:    actorID,
				Action:     audit.ActionGradeLocked,
				EntityType: "salary_grade",
				EntityID:   outcome.grade.ID,
			}, nil)
		}
	}

	return created, "", nil
}

func (s *PayrollServiceImpl) resolveEmployees(ctx context.Context, companyID string, target compensation.Target) ([]employee.Employee, error) {
	var (
		employees []employee.Employee
		err       error
	)

	switch target.Scope() {
	case compensation.ScopeCompany:
		employees, err = s.employeeRepo.GetActiveOnboarded(ctx, companyID)
	case compensation.ScopeDepartment:
		employees, err = s.employeeRepo.GetActiveByDepartments(ctx, target.DepartmentIDs(), companyID)
	case compensation.ScopeIndividual:
		employees, err = s.employeeRepo.GetByIDs(ctx, target.EmployeeIDs(), companyID)
	default:
		return nil, compensation.ErrInvalidScope
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employees for scope %s: %w", target.Scope(), err)
	}
	if len(employees) == 0 {
		return nil, payroll.ErrEmptyEmployeeSet
	}
	return employees, nil
}

// failureStep maps a calculation error to the processing step it belongs to.
func failureStep(err error) string {
	switch {
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		return payroll.StepDuplicateCheck
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return payroll.StepResolveEmployee
	case errors.Is(err, payroll.ErrNoActiveGradeMapping), errors.Is(err, grade.ErrGradeNotFound):
		return payroll.StepResolveGrade
	case errors.Is(err, compensation.ErrUsageConflict):
		return payroll.StepMarkUsage
	default:
		return payroll.StepCalculate
	}
}

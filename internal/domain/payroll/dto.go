package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

var validFrequencies = []string{
	string(compensation.FrequencyMonthly),
	string(compensation.FrequencyQuarterly),
	string(compensation.FrequencyYearly),
	string(compensation.FrequencyOneTime),
}

// ========== CALCULATE DTOs ==========

type CalculateEmployeeRequest struct {
	EmployeeID string `json:"-"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Frequency  string `json:"frequency"`
	MarkAsUsed bool   `json:"mark_as_used"`
}

func (r *CalculateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidPeriod(r.Month, r.Year) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "invalid payroll period"})
	}
	if !validator.IsInSlice(r.Frequency, validFrequencies) {
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be monthly, quarterly, yearly or one_time"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RUN DTOs ==========

// RunPayrollRequest drives both preview and commit. Scope decides which
// target field must be filled.
type RunPayrollRequest struct {
	Scope         string   `json:"scope"`
	DepartmentIDs []string `json:"department_ids,omitempty"`
	EmployeeIDs   []string `json:"employee_ids,omitempty"`
	Month         int      `json:"month"`
	Year          int      `json:"year"`
	Frequency     string   `json:"frequency"`
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Month, r.Year) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "invalid payroll period"})
	}
	if !validator.IsInSlice(r.Frequency, validFrequencies) {
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be monthly, quarterly, yearly or one_time"})
	}
	if _, err := r.Target(); err != nil {
		errs = append(errs, validator.ValidationError{Field: "scope", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Target builds the scope/target pair, rejecting inconsistent combinations.
func (r *RunPayrollRequest) Target() (compensation.Target, error) {
	return compensation.NewTarget(compensation.Scope(r.Scope), r.DepartmentIDs, r.EmployeeIDs)
}

func (r *RunPayrollRequest) Period() compensation.Period {
	return compensation.Period{Month: r.Month, Year: r.Year}
}

// ========== RECORD DTOs ==========

type RecordFilter struct {
	Month      *int
	Year       *int
	EmployeeID *string
	Frequency  *string
	Page       int
	Limit      int
}

type RecordResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        *string         `json:"employee_name,omitempty"`
	EmployeeCode        *string         `json:"employee_code,omitempty"`
	PeriodMonth         int             `json:"period_month"`
	PeriodYear          int             `json:"period_year"`
	Frequency           string          `json:"frequency"`
	Scope               string          `json:"scope"`
	GradeID             string          `json:"grade_id"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	StepIncrement       decimal.Decimal `json:"step_increment"`
	EffectiveBaseSalary decimal.Decimal `json:"effective_base_salary"`
	GradeAllowances     decimal.Decimal `json:"grade_allowances"`
	TotalAllowances     decimal.Decimal `json:"total_allowances"`
	TotalBonuses        decimal.Decimal `json:"total_bonuses"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	PAYEAmount          decimal.Decimal `json:"paye_amount"`
	TaxableIncome       decimal.Decimal `json:"taxable_income"`
	GrossPay            decimal.Decimal `json:"gross_pay"`
	NetPay              decimal.Decimal `json:"net_pay"`
	Breakdown           Breakdown       `json:"breakdown"`
	CreatedBy           string          `json:"created_by"`
	ProcessedBy         string          `json:"processed_by"`
	BatchID             *string         `json:"batch_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func ToRecordResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:                  rec.ID,
		EmployeeID:          rec.EmployeeID,
		EmployeeName:        rec.EmployeeName,
		EmployeeCode:        rec.EmployeeCode,
		PeriodMonth:         rec.PeriodMonth,
		PeriodYear:          rec.PeriodYear,
		Frequency:           string(rec.Frequency),
		Scope:               string(rec.Scope),
		GradeID:             rec.GradeID,
		BaseSalary:          rec.BaseSalary,
		StepIncrement:       rec.StepIncrement,
		EffectiveBaseSalary: rec.EffectiveBaseSalary,
		GradeAllowances:     rec.GradeAllowances,
		TotalAllowances:     rec.TotalAllowances,
		TotalBonuses:        rec.TotalBonuses,
		TotalDeductions:     rec.TotalDeductions,
		PAYEAmount:          rec.PAYEAmount,
		TaxableIncome:       rec.TaxableIncome,
		GrossPay:            rec.GrossPay,
		NetPay:              rec.NetPay,
		Breakdown:           rec.Breakdown,
		CreatedBy:           rec.CreatedBy,
		ProcessedBy:         rec.ProcessedBy,
		BatchID:             rec.BatchID,
		CreatedAt:           rec.CreatedAt,
	}
}

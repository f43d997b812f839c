package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

// Record - Persisted payroll result, immutable once created. Uniqueness of
// (employee, month, year, frequency, scope) is enforced by the storage layer
// at insert time.
type Record struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	Frequency   compensation.Frequency
	Scope       compensation.Scope
	GradeID     string

	BaseSalary          decimal.Decimal
	StepIncrement       decimal.Decimal
	EffectiveBaseSalary decimal.Decimal
	GradeAllowances     decimal.Decimal
	TotalAllowances     decimal.Decimal
	TotalBonuses        decimal.Decimal
	TotalDeductions     decimal.Decimal
	PAYEAmount          decimal.Decimal
	TaxableIncome       decimal.Decimal
	GrossPay            decimal.Decimal
	NetPay              decimal.Decimal

	Breakdown Breakdown

	CreatedBy   string
	ProcessedBy string
	BatchID     *string
	CreatedAt   time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// LineItem is one applied allowance, bonus or deduction within a breakdown.
type LineItem struct {
	ItemID          string                       `json:"item_id"`
	Name            string                       `json:"name"`
	Category        string                       `json:"category,omitempty"`
	CalculationType compensation.CalculationType `json:"calculation_type"`
	Amount          decimal.Decimal              `json:"amount"`
	Taxable         bool                         `json:"taxable"`
}

// SalaryDetail carries the salary resolver outcome into the breakdown.
type SalaryDetail struct {
	ActualBaseSalary    decimal.Decimal `json:"actual_base_salary"`
	StepIncrement       decimal.Decimal `json:"step_increment"`
	AppliedStep         *int            `json:"applied_step,omitempty"`
	EffectiveBaseSalary decimal.Decimal `json:"effective_base_salary"`
	GradeAllowances     decimal.Decimal `json:"grade_allowances"`
}

// Totals is the summary block of a breakdown.
type Totals struct {
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalBonuses    decimal.Decimal `json:"total_bonuses"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	PAYEAmount      decimal.Decimal `json:"paye_amount"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

// Breakdown is the full per-employee calculation result. It is returned by
// preview calls and stored alongside the record on commit.
type Breakdown struct {
	EmployeeID   string                 `json:"employee_id"`
	EmployeeCode string                 `json:"employee_code"`
	EmployeeName string                 `json:"employee_name"`
	GradeID      string                 `json:"grade_id"`
	GradeCode    string                 `json:"grade_code"`
	PeriodMonth  int                    `json:"period_month"`
	PeriodYear   int                    `json:"period_year"`
	Frequency    compensation.Frequency `json:"frequency"`
	Salary       SalaryDetail           `json:"salary"`
	Allowances   []LineItem             `json:"allowances"`
	Bonuses      []LineItem             `json:"bonuses"`
	Deductions   []LineItem             `json:"deductions"`
	Tax          tax.Result             `json:"tax"`
	Totals       Totals                 `json:"totals"`
}

// AppliedItemIDs lists every compensation item the breakdown consumed, the
// set whose usage fields are flipped on commit.
func (b Breakdown) AppliedItemIDs() []string {
	ids := make([]string, 0, len(b.Allowances)+len(b.Bonuses)+len(b.Deductions))
	for _, li := range b.Allowances {
		ids = append(ids, li.ItemID)
	}
	for _, li := range b.Bonuses {
		ids = append(ids, li.ItemID)
	}
	for _, li := range b.Deductions {
		ids = append(ids, li.ItemID)
	}
	return ids
}

// Processing step identifiers recorded with per-employee batch failures.
const (
	StepDuplicateCheck  = "duplicate_check"
	StepResolveEmployee = "resolve_employee"
	StepResolveGrade    = "resolve_grade"
	StepCalculate       = "calculate"
	StepMarkUsage       = "mark_usage"
	StepPersist         = "persist"
)

// ProcessingError is one employee's failure inside a batch run.
type ProcessingError struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Step         string `json:"step"`
	Message      string `json:"message"`
}

// ProcessingSummary is the outcome of a batch commit. The batch always
// returns a summary; per-employee failures accumulate in Errors instead of
// aborting the run.
type ProcessingSummary struct {
	BatchID         string            `json:"batch_id"`
	TotalEmployees  int               `json:"total_employees"`
	Successful      int               `json:"successful"`
	Failed          int               `json:"failed"`
	Duplicates      int               `json:"duplicates"`
	Errors          []ProcessingError `json:"errors"`
	TotalGrossPay   decimal.Decimal   `json:"total_gross_pay"`
	TotalNetPay     decimal.Decimal   `json:"total_net_pay"`
	TotalDeductions decimal.Decimal   `json:"total_deductions"`
}

// PreviewSummary aggregates per-employee calculations without persisting
// anything.
type PreviewSummary struct {
	TotalEmployees  int               `json:"total_employees"`
	Successful      int               `json:"successful"`
	Failed          int               `json:"failed"`
	Errors          []ProcessingError `json:"errors"`
	TotalGrossPay   decimal.Decimal   `json:"total_gross_pay"`
	TotalNetPay     decimal.Decimal   `json:"total_net_pay"`
	TotalDeductions decimal.Decimal   `json:"total_deductions"`
	Breakdowns      []Breakdown       `json:"breakdowns"`
}

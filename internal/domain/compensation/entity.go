package compensation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which of the three item pools an item belongs to.
type Kind string

const (
	KindAllowance Kind = "allowance"
	KindBonus     Kind = "bonus"
	KindDeduction Kind = "deduction"
)

type CalculationType string

const (
	CalculationTypeFixed      CalculationType = "fixed"
	CalculationTypePercentage CalculationType = "percentage"
	// CalculationTypeTaxBrackets marks statutory deductions whose amount is
	// produced by the tax bracket resolver, never stored as a rate.
	CalculationTypeTaxBrackets CalculationType = "tax_brackets"
)

type PercentageBase string

const (
	PercentageBaseSalary PercentageBase = "base_salary"
	PercentageBaseGross  PercentageBase = "gross_salary"
)

type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyOneTime   Frequency = "one_time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
)

type DeductionType string

const (
	DeductionTypeStatutory DeductionType = "statutory"
	DeductionTypeVoluntary DeductionType = "voluntary"
)

// CategoryPAYE forces tax-bracket calculation on a deduction.
const CategoryPAYE = "paye"

// Item is the shared shape of allowances, bonuses and deductions.
// DeductionType is only meaningful when Kind is deduction. Amount is nil for
// PAYE, whose value exists only as a calculation outcome.
type Item struct {
	ID              string
	CompanyID       string
	Kind            Kind
	Name            string
	Category        string
	Target          Target
	CalculationType CalculationType
	PercentageBase  PercentageBase
	Amount          *decimal.Decimal
	Taxable         bool
	Frequency       Frequency
	DeductionType   DeductionType
	StartDate       time.Time
	EndDate         *time.Time
	Status          Status

	// Usage tracking
	IsUsed              bool
	UsageCount          int
	LastUsedDate        *time.Time
	LastUsedInPayrollID *string
	// UsageVersion is the optimistic-lock token guarding usage updates.
	UsageVersion int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPAYE reports whether the item is the dynamically computed statutory
// income tax deduction.
func (i Item) IsPAYE() bool {
	return i.Kind == KindDeduction && i.Category == CategoryPAYE
}

// Period identifies a payroll period.
type Period struct {
	Month int
	Year  int
}

// Quarter returns the calendar quarter of the period, 1 through 4.
func (p Period) Quarter() int {
	return (p.Month-1)/3 + 1
}

// FirstDay returns the first day of the period month in UTC.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last day of the period month in UTC.
func (p Period) LastDay() time.Time {
	return p.FirstDay().AddDate(0, 1, -1)
}

package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bracket is one band of the progressive income tax table. Brackets are kept
// on annualized income; MaxAmount nil marks the unbounded top bracket.
// AdditionalTax is the pre-accumulated tax of all lower brackets, carried so
// a single-bracket lookup needs no re-summation.
type Bracket struct {
	ID            string
	CompanyID     string
	Order         int
	MinAmount     decimal.Decimal
	MaxAmount     *decimal.Decimal
	TaxRate       decimal.Decimal
	AdditionalTax decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BracketTax is one line of a tax computation breakdown.
type BracketTax struct {
	Order         int             `json:"order"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Tax           decimal.Decimal `json:"tax"`
}

// Result is the outcome of resolving a period income against the brackets.
type Result struct {
	PeriodTax        decimal.Decimal `json:"period_tax"`
	AnnualTax        decimal.Decimal `json:"annual_tax"`
	AnnualizedIncome decimal.Decimal `json:"annualized_income"`
	Breakdown        []BracketTax    `json:"breakdown,omitempty"`
}

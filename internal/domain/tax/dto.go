package tax

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

type BracketInput struct {
	Order         int              `json:"order"`
	MinAmount     decimal.Decimal  `json:"min_amount"`
	MaxAmount     *decimal.Decimal `json:"max_amount,omitempty"`
	TaxRate       decimal.Decimal  `json:"tax_rate"`
	AdditionalTax decimal.Decimal  `json:"additional_tax"`
}

type ReplaceBracketsRequest struct {
	Brackets []BracketInput `json:"brackets"`
}

func (r *ReplaceBracketsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Brackets) == 0 {
		errs = append(errs, validator.ValidationError{Field: "brackets", Message: "at least one bracket is required"})
		return errs
	}

	// Partition errors keep their identity so callers can map them
	// individually.
	return ValidateBrackets(r.ToBrackets(""))
}

func (r *ReplaceBracketsRequest) ToBrackets(companyID string) []Bracket {
	out := make([]Bracket, 0, len(r.Brackets))
	for _, b := range r.Brackets {
		out = append(out, Bracket{
			CompanyID:     companyID,
			Order:         b.Order,
			MinAmount:     b.MinAmount,
			MaxAmount:     b.MaxAmount,
			TaxRate:       b.TaxRate,
			AdditionalTax: b.AdditionalTax,
		})
	}
	return out
}

type BracketResponse struct {
	ID            string           `json:"id"`
	Order         int              `json:"order"`
	MinAmount     decimal.Decimal  `json:"min_amount"`
	MaxAmount     *decimal.Decimal `json:"max_amount,omitempty"`
	TaxRate       decimal.Decimal  `json:"tax_rate"`
	AdditionalTax decimal.Decimal  `json:"additional_tax"`
}

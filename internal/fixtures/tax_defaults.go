package fixtures

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultTaxBrackets returns the statutory PAYE table on annualized income,
// used to seed companies that have not configured their own.
func DefaultTaxBrackets(companyID string) []tax.Bracket {
	return []tax.Bracket{
		{CompanyID: companyID, Order: 1, MinAmount: dec(0), MaxAmount: decPtr(300_000), TaxRate: dec(7), AdditionalTax: dec(0)},
		{CompanyID: companyID, Order: 2, MinAmount: dec(300_000), MaxAmount: decPtr(600_000), TaxRate: dec(11), AdditionalTax: dec(21_000)},
		{CompanyID: companyID, Order: 3, MinAmount: dec(600_000), MaxAmount: decPtr(1_100_000), TaxRate: dec(15), AdditionalTax: dec(54_000)},
		{CompanyID: companyID, Order: 4, MinAmount: dec(1_100_000), MaxAmount: decPtr(1_600_000), TaxRate: dec(19), AdditionalTax: dec(129_000)},
		{CompanyID: companyID, Order: 5, MinAmount: dec(1_600_000), MaxAmount: decPtr(3_200_000), TaxRate: dec(21), AdditionalTax: dec(224_000)},
		{CompanyID: companyID, Order: 6, MinAmount: dec(3_200_000), MaxAmount: nil, TaxRate: dec(24), AdditionalTax: dec(560_000)},
	}
}

package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

var hundred = decimal.NewFromInt(100)

// poolResult is the outcome of aggregating one item pool for one employee.
// PAYE lines are listed but excluded from every total; their amount is filled
// in after the tax resolver runs.
type poolResult struct {
	Total      decimal.Decimal
	Taxable    decimal.Decimal
	NonTaxable decimal.Decimal
	Lines      []payroll.LineItem
	Applied    []compensation.Item
}

// aggregatePool filters a pool through the eligibility rules and computes
// each eligible item's amount. effectiveBase feeds base_salary percentages,
// runningGross feeds gross_salary percentages; the caller advances
// runningGross between pools.
func aggregatePool(
	items []compensation.Item,
	emp compensation.EmployeeRef,
	period compensation.Period,
	runFreq compensation.Frequency,
	effectiveBase, runningGross decimal.Decimal,
) poolResult {
	res := poolResult{
		Total:      decimal.Zero,
		Taxable:    decimal.Zero,
		NonTaxable: decimal.Zero,
	}

	for _, item := range items {
		if !compensation.Eligible(item, emp, period, runFreq) {
			continue
		}

		amount := itemAmount(item, effectiveBase, runningGross)
		res.Lines = append(res.Lines, payroll.LineItem{
			ItemID:          item.ID,
			Name:            item.Name,
			Category:        item.Category,
			CalculationType: item.CalculationType,
			Amount:          amount,
			Taxable:         item.Taxable,
		})
		res.Applied = append(res.Applied, item)

		if item.IsPAYE() {
			continue
		}
		res.Total = res.Total.Add(amount)
		if item.Taxable {
			res.Taxable = res.Taxable.Add(amount)
		} else {
			res.NonTaxable = res.NonTaxable.Add(amount)
		}
	}

	return res
}

func itemAmount(item compensation.Item, effectiveBase, runningGross decimal.Decimal) decimal.Decimal {
	if item.IsPAYE() || item.Amount == nil {
		return decimal.Zero
	}

	switch item.CalculationType {
	case compensation.CalculationTypeFixed:
		return *item.Amount
	case compensation.CalculationTypePercentage:
		base := effectiveBase
		if item.PercentageBase == compensation.PercentageBaseGross {
			base = runningGross
		}
		return base.Mul(*item.Amount).Div(hundred)
	}
	return decimal.Zero
}

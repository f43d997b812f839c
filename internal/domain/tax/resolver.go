package tax

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
)

var hundred = decimal.NewFromInt(100)

// AnnualMultiplier returns how many periods of the given frequency make up a
// tax year. One-time payouts are taxed as a monthly equivalent.
func AnnualMultiplier(freq compensation.Frequency) decimal.Decimal {
	switch freq {
	case compensation.FrequencyQuarterly:
		return decimal.NewFromInt(4)
	case compensation.FrequencyYearly:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(12)
	}
}

// Resolve computes the progressive tax on a period's taxable income. The
// income is annualized per frequency, walked through the brackets in
// ascending order accumulating each bracket's marginal tax, then scaled back
// to the period.
func Resolve(periodIncome decimal.Decimal, brackets []Bracket, freq compensation.Frequency) Result {
	result := Result{
		PeriodTax:        decimal.Zero,
		AnnualTax:        decimal.Zero,
		AnnualizedIncome: decimal.Zero,
	}
	if !periodIncome.IsPositive() || len(brackets) == 0 {
		return result
	}

	multiplier := AnnualMultiplier(freq)
	annualIncome := periodIncome.Mul(multiplier)
	result.AnnualizedIncome = annualIncome

	ordered := make([]Bracket, len(brackets))
	copy(ordered, brackets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	remaining := annualIncome
	for _, b := range ordered {
		if !remaining.IsPositive() {
			break
		}

		var taxable decimal.Decimal
		if b.MaxAmount == nil {
			// Unbounded top bracket absorbs everything left.
			taxable = remaining
		} else {
			width := b.MaxAmount.Sub(b.MinAmount)
			taxable = decimal.Min(remaining, width)
		}
		if !taxable.IsPositive() {
			continue
		}

		bracketTax := taxable.Mul(b.TaxRate).Div(hundred)
		result.AnnualTax = result.AnnualTax.Add(bracketTax)
		result.Breakdown = append(result.Breakdown, BracketTax{
			Order:         b.Order,
			TaxableAmount: taxable,
			TaxRate:       b.TaxRate,
			Tax:           bracketTax,
		})
		remaining = remaining.Sub(taxable)
	}

	result.PeriodTax = result.AnnualTax.Div(multiplier)
	return result
}

// ValidateBrackets checks that a bracket list partitions [0, inf) without
// gaps: unique ascending orders, the first bracket starting at zero, each
// bracket starting where the previous one ends, and only the last bracket
// unbounded.
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return ErrNoBrackets
	}

	seen := make(map[int]struct{}, len(brackets))
	for _, b := range brackets {
		if _, ok := seen[b.Order]; ok {
			return ErrDuplicateOrder
		}
		seen[b.Order] = struct{}{}
	}

	ordered := make([]Bracket, len(brackets))
	copy(ordered, brackets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	expectedMin := decimal.Zero
	runningTax := decimal.Zero
	for i, b := range ordered {
		if b.TaxRate.IsNegative() || b.TaxRate.GreaterThan(hundred) {
			return ErrInvalidRate
		}
		// AdditionalTax must equal the accumulated tax of the lower brackets.
		if !b.AdditionalTax.Equal(runningTax) {
			return ErrInvalidAdditionalTax
		}
		if !b.MinAmount.Equal(expectedMin) {
			return ErrBracketGap
		}
		if b.MaxAmount == nil {
			if i != len(ordered)-1 {
				return ErrUnboundedNotLast
			}
			return nil
		}
		if !b.MaxAmount.GreaterThan(b.MinAmount) {
			return ErrInvalidBounds
		}
		runningTax = runningTax.Add(b.MaxAmount.Sub(b.MinAmount).Mul(b.TaxRate).Div(hundred))
		expectedMin = *b.MaxAmount
	}
	return nil
}

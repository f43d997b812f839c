package compensation

// Allowance categories that default to non-taxable. Everything else is
// taxable unless the request says otherwise.
var nonTaxableAllowanceCategories = map[string]bool{
	"transport": true,
	"meal":      true,
	"medical":   true,
	"housing":   true,
	"education": true,
}

// DefaultTaxable returns the taxability default for a category within a pool.
func DefaultTaxable(kind Kind, category string) bool {
	switch kind {
	case KindAllowance:
		return !nonTaxableAllowanceCategories[category]
	case KindBonus:
		return category != "retention"
	default:
		return true
	}
}

package compensation

import "time"

// EmployeeRef is the minimal employee identity the eligibility filter needs.
type EmployeeRef struct {
	ID           string
	DepartmentID string
}

// Eligible decides whether an item participates in a payroll run for the
// given employee and period. Scope match and availability are independent
// checks; both must pass.
func Eligible(item Item, emp EmployeeRef, period Period, runFrequency Frequency) bool {
	return item.Target.Includes(emp.ID, emp.DepartmentID) &&
		Available(item, period, runFrequency)
}

// Available checks item status, validity window, run-frequency admission and
// frequency-aware usage tracking for the target period.
func Available(item Item, period Period, runFrequency Frequency) bool {
	if item.Status != StatusActive {
		return false
	}
	if !admits(runFrequency, item.Frequency) {
		return false
	}
	if !withinValidity(item, period) {
		return false
	}
	if !item.IsUsed {
		return true
	}
	// One-time items are consumed forever.
	if item.Frequency == FrequencyOneTime {
		return false
	}
	if item.LastUsedDate == nil {
		return true
	}
	return !samePeriod(item.Frequency, *item.LastUsedDate, period)
}

// admits reports whether a payroll run of the given frequency may consume an
// item of the given frequency. A monthly run admits everything; coarser runs
// only admit items at least as coarse; one-time runs admit only one-time
// items.
func admits(runFrequency, itemFrequency Frequency) bool {
	switch runFrequency {
	case FrequencyMonthly:
		return true
	case FrequencyQuarterly:
		return itemFrequency == FrequencyQuarterly || itemFrequency == FrequencyYearly
	case FrequencyYearly:
		return itemFrequency == FrequencyYearly
	case FrequencyOneTime:
		return itemFrequency == FrequencyOneTime
	}
	return false
}

func withinValidity(item Item, period Period) bool {
	if item.StartDate.After(period.LastDay()) {
		return false
	}
	if item.EndDate != nil && item.EndDate.Before(period.FirstDay()) {
		return false
	}
	return true
}

// samePeriod compares a usage timestamp against the target period at the
// granularity of the item's frequency.
func samePeriod(freq Frequency, lastUsed time.Time, period Period) bool {
	used := Period{Month: int(lastUsed.Month()), Year: lastUsed.Year()}
	switch freq {
	case FrequencyMonthly:
		return used.Year == period.Year && used.Month == period.Month
	case FrequencyQuarterly:
		return used.Year == period.Year && used.Quarter() == period.Quarter()
	case FrequencyYearly:
		return used.Year == period.Year
	}
	return false
}

package compensation

import "errors"

var (
	ErrItemNotFound = errors.New("compensation item not found")
	// ErrUsageConflict is returned when an optimistic-lock update on an
	// item's usage fields loses to a concurrent payroll commit.
	ErrUsageConflict   = errors.New("compensation item usage update conflict")
	ErrItemUnavailable = errors.New("compensation item is not available for this period")
	ErrPAYENotStorable = errors.New("paye deductions are computed from tax brackets and carry no stored amount")
)

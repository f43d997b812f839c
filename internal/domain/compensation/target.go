package compensation

import "errors"

type Scope string

const (
	ScopeCompany    Scope = "company"
	ScopeDepartment Scope = "department"
	ScopeIndividual Scope = "individual"
)

var (
	ErrEmptyTarget      = errors.New("target set is required for this scope")
	ErrUnexpectedTarget = errors.New("target set must be empty for company scope")
	ErrInvalidScope     = errors.New("invalid scope")
)

// Target binds an item to the employees it applies to. Construct through the
// New*Target functions so scope and target set are always consistent.
type Target struct {
	scope         Scope
	departmentIDs []string
	employeeIDs   []string
}

func NewCompanyTarget() Target {
	return Target{scope: ScopeCompany}
}

func NewDepartmentTarget(departmentIDs []string) (Target, error) {
	if len(departmentIDs) == 0 {
		return Target{}, ErrEmptyTarget
	}
	return Target{scope: ScopeDepartment, departmentIDs: dedupe(departmentIDs)}, nil
}

func NewIndividualTarget(employeeIDs []string) (Target, error) {
	if len(employeeIDs) == 0 {
		return Target{}, ErrEmptyTarget
	}
	return Target{scope: ScopeIndividual, employeeIDs: dedupe(employeeIDs)}, nil
}

// NewTarget builds a target from wire-level fields, rejecting inconsistent
// scope/target combinations.
func NewTarget(scope Scope, departmentIDs, employeeIDs []string) (Target, error) {
	switch scope {
	case ScopeCompany:
		if len(departmentIDs) > 0 || len(employeeIDs) > 0 {
			return Target{}, ErrUnexpectedTarget
		}
		return NewCompanyTarget(), nil
	case ScopeDepartment:
		if len(employeeIDs) > 0 {
			return Target{}, ErrUnexpectedTarget
		}
		return NewDepartmentTarget(departmentIDs)
	case ScopeIndividual:
		if len(departmentIDs) > 0 {
			return Target{}, ErrUnexpectedTarget
		}
		return NewIndividualTarget(employeeIDs)
	default:
		return Target{}, ErrInvalidScope
	}
}

func (t Target) Scope() Scope {
	return t.scope
}

func (t Target) DepartmentIDs() []string {
	return t.departmentIDs
}

func (t Target) EmployeeIDs() []string {
	return t.employeeIDs
}

// Includes reports whether the target covers the given employee/department.
func (t Target) Includes(employeeID, departmentID string) bool {
	switch t.scope {
	case ScopeCompany:
		return true
	case ScopeDepartment:
		for _, id := range t.departmentIDs {
			if id == departmentID {
				return true
			}
		}
	case ScopeIndividual:
		for _, id := range t.employeeIDs {
			if id == employeeID {
				return true
			}
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, employee.ErrRoleNotFound):
		NotFound(w, "Role not found")

	// Salary grade domain errors
	case errors.Is(err, grade.ErrGradeNotFound):
		NotFound(w, "Salary grade not found")
	case errors.Is(err, grade.ErrGradeCodeExists):
		Conflict(w, "Salary grade code already exists")
	case errors.Is(err, grade.ErrGradeLocked):
		Conflict(w, "Salary grade is locked by processed payroll")
	case errors.Is(err, grade.ErrMappingNotFound):
		NotFound(w, "No active salary grade mapping for role")
	case errors.Is(err, grade.ErrMappingConflict):
		Conflict(w, "Role already has an active salary grade mapping")
	case errors.Is(err, grade.ErrInvalidSalaryRange):
		BadRequest(w, "Minimum gross salary must be below maximum gross salary", nil)

	// Compensation item domain errors
	case errors.Is(err, compensation.ErrItemNotFound):
		NotFound(w, "Compensation item not found")
	case errors.Is(err, compensation.ErrUsageConflict):
		Conflict(w, "Compensation item was consumed by a concurrent payroll run")
	case errors.Is(err, compensation.ErrItemUnavailable):
		BadRequest(w, "Compensation item is not available for this period", nil)
	case errors.Is(err, compensation.ErrPAYENotStorable):
		BadRequest(w, "PAYE deductions are computed from tax brackets and carry no stored amount", nil)

	// Tax bracket domain errors
	case errors.Is(err, tax.ErrNoBrackets):
		BadRequest(w, "No tax brackets configured", nil)
	case errors.Is(err, tax.ErrDuplicateOrder),
		errors.Is(err, tax.ErrInvalidRate),
		errors.Is(err, tax.ErrInvalidBounds),
		errors.Is(err, tax.ErrBracketGap),
		errors.Is(err, tax.ErrUnboundedNotLast),
		errors.Is(err, tax.ErrInvalidAdditionalTax):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrInvalidFrequency):
		BadRequest(w, "Invalid payroll frequency", nil)
	case errors.Is(err, payroll.ErrNoActiveGradeMapping):
		BadRequest(w, "Employee role has no active salary grade mapping", nil)
	case errors.Is(err, payroll.ErrEmptyEmployeeSet):
		BadRequest(w, "No employees resolved for the requested scope", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

package grade

import "errors"

var (
	ErrGradeNotFound      = errors.New("salary grade not found")
	ErrGradeCodeExists    = errors.New("salary grade code already exists")
	ErrGradeLocked        = errors.New("salary grade is referenced by processed payroll and cannot be modified")
	ErrMappingNotFound    = errors.New("no active salary grade mapping for role")
	ErrMappingConflict    = errors.New("role already has an active salary grade mapping")
	ErrInvalidSalaryRange = errors.New("minimum gross salary must be less than maximum gross salary")
)

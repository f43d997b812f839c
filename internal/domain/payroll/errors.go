package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrInvalidFrequency           = errors.New("invalid payroll frequency")
	ErrNoActiveGradeMapping       = errors.New("no active salary grade mapping for employee role")
	ErrEmptyEmployeeSet           = errors.New("no employees resolved for the requested scope")
)

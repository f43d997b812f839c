package grade

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

type StepInput struct {
	Step                    int             `json:"step"`
	IncrementPercent        decimal.Decimal `json:"increment_percent"`
	YearsOfServiceThreshold int             `json:"years_of_service_threshold"`
}

type CustomAllowanceInput struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type CreateGradeRequest struct {
	Code               string                 `json:"code"`
	Name               string                 `json:"name"`
	MinGrossSalary     decimal.Decimal        `json:"min_gross_salary"`
	MaxGrossSalary     decimal.Decimal        `json:"max_gross_salary"`
	HousingAllowance   decimal.Decimal        `json:"housing_allowance"`
	TransportAllowance decimal.Decimal        `json:"transport_allowance"`
	MealAllowance      decimal.Decimal        `json:"meal_allowance"`
	OtherAllowance     decimal.Decimal        `json:"other_allowance"`
	CustomAllowances   []CustomAllowanceInput `json:"custom_allowances,omitempty"`
	Steps              []StepInput            `json:"steps,omitempty"`
}

func (r *CreateGradeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !r.MinGrossSalary.LessThan(r.MaxGrossSalary) {
		errs = append(errs, validator.ValidationError{Field: "min_gross_salary", Message: "must be less than max_gross_salary"})
	}
	for _, field := range []struct {
		name   string
		amount decimal.Decimal
	}{
		{"housing_allowance", r.HousingAllowance},
		{"transport_allowance", r.TransportAllowance},
		{"meal_allowance", r.MealAllowance},
		{"other_allowance", r.OtherAllowance},
	} {
		if field.amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field.name, Message: "must be non-negative"})
		}
	}
	for _, ca := range r.CustomAllowances {
		if validator.IsEmpty(ca.Name) {
			errs = append(errs, validator.ValidationError{Field: "custom_allowances", Message: "allowance name is required"})
		}
		if ca.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "custom_allowances", Message: "allowance amount must be non-negative"})
		}
	}
	for _, s := range r.Steps {
		if s.IncrementPercent.IsNegative() || s.IncrementPercent.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, validator.ValidationError{Field: "steps", Message: "increment_percent must be between 0 and 100"})
		}
		if s.YearsOfServiceThreshold < 0 {
			errs = append(errs, validator.ValidationError{Field: "steps", Message: "years_of_service_threshold must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateGradeRequest struct {
	ID                 string
	Name               *string                 `json:"name,omitempty"`
	MinGrossSalary     *decimal.Decimal        `json:"min_gross_salary,omitempty"`
	MaxGrossSalary     *decimal.Decimal        `json:"max_gross_salary,omitempty"`
	HousingAllowance   *decimal.Decimal        `json:"housing_allowance,omitempty"`
	TransportAllowance *decimal.Decimal        `json:"transport_allowance,omitempty"`
	MealAllowance      *decimal.Decimal        `json:"meal_allowance,omitempty"`
	OtherAllowance     *decimal.Decimal        `json:"other_allowance,omitempty"`
	CustomAllowances   *[]CustomAllowanceInput `json:"custom_allowances,omitempty"`
	Steps              *[]StepInput            `json:"steps,omitempty"`
	IsActive           *bool                   `json:"is_active,omitempty"`
}

func (r *UpdateGradeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.MinGrossSalary != nil && r.MaxGrossSalary != nil &&
		!r.MinGrossSalary.LessThan(*r.MaxGrossSalary) {
		errs = append(errs, validator.ValidationError{Field: "min_gross_salary", Message: "must be less than max_gross_salary"})
	}
	if r.Steps != nil {
		for _, s := range *r.Steps {
			if s.IncrementPercent.IsNegative() || s.IncrementPercent.GreaterThan(decimal.NewFromInt(100)) {
				errs = append(errs, validator.ValidationError{Field: "steps", Message: "increment_percent must be between 0 and 100"})
			}
			if s.YearsOfServiceThreshold < 0 {
				errs = append(errs, validator.ValidationError{Field: "steps", Message: "years_of_service_threshold must be non-negative"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignGradeToRoleRequest struct {
	RoleID  string `json:"role_id"`
	GradeID string `json:"grade_id"`
}

func (r *AssignGradeToRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RoleID) {
		errs = append(errs, validator.ValidationError{Field: "role_id", Message: "is required"})
	}
	if validator.IsEmpty(r.GradeID) {
		errs = append(errs, validator.ValidationError{Field: "grade_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GradeResponse struct {
	ID                 string                 `json:"id"`
	Code               string                 `json:"code"`
	Name               string                 `json:"name"`
	MinGrossSalary     decimal.Decimal        `json:"min_gross_salary"`
	MaxGrossSalary     decimal.Decimal        `json:"max_gross_salary"`
	HousingAllowance   decimal.Decimal        `json:"housing_allowance"`
	TransportAllowance decimal.Decimal        `json:"transport_allowance"`
	MealAllowance      decimal.Decimal        `json:"meal_allowance"`
	OtherAllowance     decimal.Decimal        `json:"other_allowance"`
	CustomAllowances   []CustomAllowanceInput `json:"custom_allowances,omitempty"`
	Steps              []StepInput            `json:"steps,omitempty"`
	IsLocked           bool                   `json:"is_locked"`
	IsActive           bool                   `json:"is_active"`
}

func ToGradeResponse(g SalaryGrade) GradeResponse {
	resp := GradeResponse{
		ID:                 g.ID,
		Code:               g.Code,
		Name:               g.Name,
		MinGrossSalary:     g.MinGrossSalary,
		MaxGrossSalary:     g.MaxGrossSalary,
		HousingAllowance:   g.HousingAllowance,
		TransportAllowance: g.TransportAllowance,
		MealAllowance:      g.MealAllowance,
		OtherAllowance:     g.OtherAllowance,
		IsLocked:           g.IsLocked,
		IsActive:           g.IsActive,
	}
	for _, ca := range g.CustomAllowances {
		resp.CustomAllowances = append(resp.CustomAllowances, CustomAllowanceInput{Name: ca.Name, Amount: ca.Amount})
	}
	for _, s := range g.Steps {
		resp.Steps = append(resp.Steps, StepInput{Step: s.Step, IncrementPercent: s.IncrementPercent, YearsOfServiceThreshold: s.YearsOfServiceThreshold})
	}
	return resp
}

type MappingResponse struct {
	ID       string `json:"id"`
	RoleID   string `json:"role_id"`
	GradeID  string `json:"grade_id"`
	IsActive bool   `json:"is_active"`
}

func ToMappingResponse(m RoleGradeMapping) MappingResponse {
	return MappingResponse{
		ID:       m.ID,
		RoleID:   m.RoleID,
		GradeID:  m.GradeID,
		IsActive: m.IsActive,
	}
}

package compensation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

type CreateItemRequest struct {
	Kind            string           `json:"-"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Scope           string           `json:"scope"`
	DepartmentIDs   []string         `json:"department_ids,omitempty"`
	EmployeeIDs     []string         `json:"employee_ids,omitempty"`
	CalculationType string           `json:"calculation_type"`
	PercentageBase  *string          `json:"percentage_base,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Taxable         *bool            `json:"taxable,omitempty"`
	Frequency       string           `json:"frequency"`
	DeductionType   *string          `json:"deduction_type,omitempty"`
	StartDate       string           `json:"start_date"`
	EndDate         *string          `json:"end_date,omitempty"`
}

var validFrequencies = []string{
	string(FrequencyMonthly), string(FrequencyQuarterly),
	string(FrequencyYearly), string(FrequencyOneTime),
}

func (r *CreateItemRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if _, err := NewTarget(Scope(r.Scope), r.DepartmentIDs, r.EmployeeIDs); err != nil {
		errs = append(errs, validator.ValidationError{Field: "scope", Message: err.Error()})
	}
	if !validator.IsInSlice(r.Frequency, validFrequencies) {
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be monthly, quarterly, yearly or one_time"})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	isPAYE := Kind(r.Kind) == KindDeduction && r.Category == CategoryPAYE
	switch {
	case isPAYE:
		// PAYE is always computed from tax brackets, never stored.
		if r.CalculationType != "" && r.CalculationType != string(CalculationTypeTaxBrackets) {
			errs = append(errs, validator.ValidationError{Field: "calculation_type", Message: "paye deductions must use tax_brackets"})
		}
		if r.Amount != nil {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "paye deductions carry no stored amount"})
		}
	case r.CalculationType == string(CalculationTypeFixed):
		if r.Amount == nil || r.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be a non-negative amount"})
		}
	case r.CalculationType == string(CalculationTypePercentage):
		if r.Amount == nil || r.Amount.IsNegative() || r.Amount.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be a percentage between 0 and 100"})
		}
		if r.PercentageBase != nil &&
			*r.PercentageBase != string(PercentageBaseSalary) &&
			*r.PercentageBase != string(PercentageBaseGross) {
			errs = append(errs, validator.ValidationError{Field: "percentage_base", Message: "must be base_salary or gross_salary"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "calculation_type", Message: "must be fixed or percentage"})
	}

	if Kind(r.Kind) == KindDeduction && r.DeductionType != nil &&
		*r.DeductionType != string(DeductionTypeStatutory) &&
		*r.DeductionType != string(DeductionTypeVoluntary) {
		errs = append(errs, validator.ValidationError{Field: "deduction_type", Message: "must be statutory or voluntary"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToItem builds a validated Item from the request. Call Validate first.
func (r *CreateItemRequest) ToItem(companyID string) (Item, error) {
	target, err := NewTarget(Scope(r.Scope), r.DepartmentIDs, r.EmployeeIDs)
	if err != nil {
		return Item{}, err
	}

	startDate, _ := validator.IsValidDate(r.StartDate)
	var endDate *time.Time
	if r.EndDate != nil {
		parsed, _ := validator.IsValidDate(*r.EndDate)
		endDate = &parsed
	}

	kind := Kind(r.Kind)
	taxable := DefaultTaxable(kind, r.Category)
	if r.Taxable != nil {
		taxable = *r.Taxable
	}

	calcType := CalculationType(r.CalculationType)
	var amount *decimal.Decimal
	if kind == KindDeduction && r.Category == CategoryPAYE {
		calcType = CalculationTypeTaxBrackets
	} else {
		amount = r.Amount
	}

	percentageBase := PercentageBaseSalary
	if r.PercentageBase != nil {
		percentageBase = PercentageBase(*r.PercentageBase)
	}

	deductionType := DeductionTypeVoluntary
	if kind == KindDeduction {
		if r.Category == CategoryPAYE {
			deductionType = DeductionTypeStatutory
		} else if r.DeductionType != nil {
			deductionType = DeductionType(*r.DeductionType)
		}
	}

	return Item{
		CompanyID:       companyID,
		Kind:            kind,
		Name:            r.Name,
		Category:        r.Category,
		Target:          target,
		CalculationType: calcType,
		PercentageBase:  percentageBase,
		Amount:          amount,
		Taxable:         taxable,
		Frequency:       Frequency(r.Frequency),
		DeductionType:   deductionType,
		StartDate:       startDate,
		EndDate:         endDate,
		Status:          StatusActive,
	}, nil
}

type UpdateItemRequest struct {
	ID        string
	Name      *string          `json:"name,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Taxable   *bool            `json:"taxable,omitempty"`
	EndDate   *string          `json:"end_date,omitempty"`
	Status    *string          `json:"status,omitempty"`
	Frequency *string          `json:"frequency,omitempty"`
}

func (r *UpdateItemRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusActive), string(StatusInactive)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be active or inactive"})
	}
	if r.Frequency != nil && !validator.IsInSlice(*r.Frequency, validFrequencies) {
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be monthly, quarterly, yearly or one_time"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ItemResponse struct {
	ID              string           `json:"id"`
	Kind            string           `json:"kind"`
	Name            string           `json:"name"`
	Category        string           `json:"category,omitempty"`
	Scope           string           `json:"scope"`
	DepartmentIDs   []string         `json:"department_ids,omitempty"`
	EmployeeIDs     []string         `json:"employee_ids,omitempty"`
	CalculationType string           `json:"calculation_type"`
	PercentageBase  string           `json:"percentage_base,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Taxable         bool             `json:"taxable"`
	Frequency       string           `json:"frequency"`
	DeductionType   string           `json:"deduction_type,omitempty"`
	StartDate       string           `json:"start_date"`
	EndDate         *string          `json:"end_date,omitempty"`
	Status          string           `json:"status"`
	IsUsed          bool             `json:"is_used"`
	UsageCount      int              `json:"usage_count"`
	LastUsedDate    *string          `json:"last_used_date,omitempty"`
}

func ToItemResponse(i Item) ItemResponse {
	resp := ItemResponse{
		ID:              i.ID,
		Kind:            string(i.Kind),
		Name:            i.Name,
		Category:        i.Category,
		Scope:           string(i.Target.Scope()),
		DepartmentIDs:   i.Target.DepartmentIDs(),
		EmployeeIDs:     i.Target.EmployeeIDs(),
		CalculationType: string(i.CalculationType),
		PercentageBase:  string(i.PercentageBase),
		Amount:          i.Amount,
		Taxable:         i.Taxable,
		Frequency:       string(i.Frequency),
		StartDate:       i.StartDate.Format("2006-01-02"),
		Status:          string(i.Status),
		IsUsed:          i.IsUsed,
		UsageCount:      i.UsageCount,
	}
	if i.Kind == KindDeduction {
		resp.DeductionType = string(i.DeductionType)
	}
	if i.EndDate != nil {
		str := i.EndDate.Format("2006-01-02")
		resp.EndDate = &str
	}
	if i.LastUsedDate != nil {
		str := i.LastUsedDate.Format("2006-01-02")
		resp.LastUsedDate = &str
	}
	return resp
}

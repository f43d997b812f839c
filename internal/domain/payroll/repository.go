package payroll

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
)

// PayrollRepository defines data access for payroll records. Records are
// insert-only; there is no update or delete.
// All methods include companyID to prevent cross-company data access.
type PayrollRepository interface {
	// CreateRecord inserts one immutable payroll record. It returns
	// ErrPayrollRecordAlreadyExists when the (employee, month, year,
	// frequency, scope) tuple is already taken, relying on the storage
	// layer's unique constraint so concurrent commits cannot double-pay.
	CreateRecord(ctx context.Context, record Record) (Record, error)

	GetRecordByID(ctx context.Context, id string, companyID string) (Record, error)

	// FindRecord looks up the record for an exact payroll tuple, the
	// duplicate check run before calculation.
	FindRecord(ctx context.Context, companyID string, employeeID string, month, year int, freq compensation.Frequency, scope compensation.Scope) (Record, error)

	ListRecords(ctx context.Context, companyID string, filter RecordFilter) ([]Record, int64, error)
}

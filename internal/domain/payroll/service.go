package payroll

import "context"

// PayrollService defines the payroll engine's invocation surface. Company and
// actor identity are passed explicitly; handlers extract them from the
// request context.
type PayrollService interface {
	// CalculateEmployeePayroll runs the full calculation for one employee.
	// With MarkAsUsed false the call is pure and repeatable; with true it
	// also flips usage tracking on every applied item.
	CalculateEmployeePayroll(ctx context.Context, companyID string, actorID string, req CalculateEmployeeRequest) (Breakdown, error)

	// PreviewPayroll aggregates per-employee calculations for a scope without
	// persisting anything.
	PreviewPayroll(ctx context.Context, companyID string, req RunPayrollRequest) (PreviewSummary, error)

	// CommitPayroll persists one immutable record per employee, marks
	// consumed items used and emits the audit trail. Per-employee failures
	// accumulate in the summary instead of aborting the batch.
	CommitPayroll(ctx context.Context, companyID string, actorID string, req RunPayrollRequest) (ProcessingSummary, error)

	GetRecord(ctx context.Context, id string, companyID string) (RecordResponse, error)
	ListRecords(ctx context.Context, companyID string, filter RecordFilter) ([]RecordResponse, int64, error)
}

package payroll

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	gradeRepo    grade.GradeRepository
	itemRepo     compensation.ItemRepository
	bracketRepo  tax.BracketRepository
	auditRepo    audit.EventRepository
	logger       *slog.Logger
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	gradeRepo grade.GradeRepository,
	itemRepo compensation.ItemRepository,
	bracketRepo tax.BracketRepository,
	auditRepo audit.EventRepository,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		gradeRepo:    gradeRepo,
		itemRepo:     itemRepo,
		bracketRepo:  bracketRepo,
		auditRepo:    auditRepo,
		logger:       logger,
	}
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string, companyID string) (payroll.RecordResponse, error) {
	rec, err := s.payrollRepo.GetRecordByID(ctx, id, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return payroll.ToRecordResponse(rec), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, companyID string, filter payroll.RecordFilter) ([]payroll.RecordResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.payrollRepo.ListRecords(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, payroll.ToRecordResponse(rec))
	}
	return responses, total, nil
}

package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	pr.id, pr.company_id, pr.employee_id, pr.period_month, pr.period_year,
	pr.frequency, pr.scope, pr.grade_id,
	pr.base_salary, pr.step_increment, pr.effective_base_salary, pr.grade_allowances,
	pr.total_allowances, pr.total_bonuses, pr.total_deductions,
	pr.paye_amount, pr.taxable_income, pr.gross_pay, pr.net_pay,
	pr.breakdown, pr.created_by, pr.processed_by, pr.batch_id, pr.created_at,
	e.full_name, e.employee_code
`

func scanPayrollRecord(row pgx.Row) (payroll.Record, error) {
	var (
		rec           payroll.Record
		breakdownJSON []byte
	)
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.Frequency, &rec.Scope, &rec.GradeID,
		&rec.BaseSalary, &rec.StepIncrement, &rec.EffectiveBaseSalary, &rec.GradeAllowances,
		&rec.TotalAllowances, &rec.TotalBonuses, &rec.TotalDeductions,
		&rec.PAYEAmount, &rec.TaxableIncome, &rec.GrossPay, &rec.NetPay,
		&breakdownJSON, &rec.CreatedBy, &rec.ProcessedBy, &rec.BatchID, &rec.CreatedAt,
		&rec.EmployeeName, &rec.EmployeeCode,
	)
	if err != nil {
		return payroll.Record{}, err
	}

	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &rec.Breakdown); err != nil {
			return payroll.Record{}, fmt.Errorf("failed to decode payroll breakdown: %w", err)
		}
	}
	return rec, nil
}

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	breakdownJSON, err := json.Marshal(record.Breakdown)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode payroll breakdown: %w", err)
	}

	query := `
		WITH inserted AS (
			INSERT INTO payroll_records (
				id, company_id, employee_id, period_month, period_year,
				frequency, scope, grade_id,
				base_salary, step_increment, effective_base_salary, grade_allowances,
				total_allowances, total_bonuses, total_deductions,
				paye_amount, taxable_income, gross_pay, net_pay,
				breakdown, created_by, processed_by, batch_id
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
			)
			RETURNING *
		)
		SELECT ` + payrollColumns + `
		FROM inserted pr
		JOIN employees e ON e.id = pr.employee_id
	`

	created, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.ID, record.CompanyID, record.EmployeeID, record.PeriodMonth, record.PeriodYear,
		record.Frequency, record.Scope, record.GradeID,
		record.BaseSalary, record.StepIncrement, record.EffectiveBaseSalary, record.GradeAllowances,
		record.TotalAllowances, record.TotalBonuses, record.TotalDeductions,
		record.PAYEAmount, record.TaxableIncome, record.GrossPay, record.NetPay,
		breakdownJSON, record.CreatedBy, record.ProcessedBy, record.BatchID,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_record_tuple") {
			return payroll.Record{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string, companyID string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.id = $1 AND pr.company_id = $2
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) FindRecord(ctx context.Context, companyID string, employeeID string, month, year int, freq compensation.Frequency, scope compensation.Scope) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.company_id = $1 AND pr.employee_id = $2
			AND pr.period_month = $3 AND pr.period_year = $4
			AND pr.frequency = $5 AND pr.scope = $6
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, companyID, employeeID, month, year, freq, scope))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to find payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ListRecords(ctx context.Context, companyID string, filter payroll.RecordFilter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"pr.company_id = $1"}
	args := []any{companyID}

	addWhere := func(clause string, value any) {
		args = append(args, value)
		whereClauses = append(whereClauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Month != nil {
		addWhere("pr.period_month = $%d", *filter.Month)
	}
	if filter.Year != nil {
		addWhere("pr.period_year = $%d", *filter.Year)
	}
	if filter.EmployeeID != nil {
		addWhere("pr.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Frequency != nil {
		addWhere("pr.frequency = $%d", *filter.Frequency)
	}

	where := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM payroll_records pr WHERE %s`, where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE %s
		ORDER BY pr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, payrollColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

type compensationItemRepository struct {
	db *database.DB
}

func NewCompensationItemRepository(db *database.DB) compensation.ItemRepository {
	return &compensationItemRepository{db: db}
}

const itemColumns = `
	id, company_id, kind, name, category, scope, department_ids, employee_ids,
	calculation_type, percentage_base, amount, taxable, frequency, deduction_type,
	start_date, end_date, status,
	is_used, usage_count, last_used_date, last_used_in_payroll_id, usage_version,
	created_at, updated_at
`

func scanItem(row pgx.Row) (compensation.Item, error) {
	var (
		i             compensation.Item
		scope         string
		departmentIDs []string
		employeeIDs   []string
	)
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.Kind, &i.Name, &i.Category, &scope, &departmentIDs, &employeeIDs,
		&i.CalculationType, &i.PercentageBase, &i.Amount, &i.Taxable, &i.Frequency, &i.DeductionType,
		&i.StartDate, &i.EndDate, &i.Status,
		&i.IsUsed, &i.UsageCount, &i.LastUsedDate, &i.LastUsedInPayrollID, &i.UsageVersion,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return compensation.Item{}, err
	}

	target, err := compensation.NewTarget(compensation.Scope(scope), departmentIDs, employeeIDs)
	if err != nil {
		return compensation.Item{}, fmt.Errorf("failed to rebuild item target: %w", err)
	}
	i.Target = target
	return i, nil
}

func (r *compensationItemRepository) Create(ctx context.Context, item compensation.Item) (compensation.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO compensation_items (
			id, company_id, kind, name, category, scope, department_ids, employee_ids,
			calculation_type, percentage_base, amount, taxable, frequency, deduction_type,
			start_date, end_date, status, usage_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 0)
		RETURNING ` + itemColumns + `
	`

	created, err := scanItem(q.QueryRow(ctx, query,
		item.ID, item.CompanyID, item.Kind, item.Name, item.Category,
		item.Target.Scope(), item.Target.DepartmentIDs(), item.Target.EmployeeIDs(),
		item.CalculationType, item.PercentageBase, item.Amount, item.Taxable, item.Frequency, item.DeductionType,
		item.StartDate, item.EndDate, item.Status,
	))
	if err != nil {
		return compensation.Item{}, fmt.Errorf("failed to create compensation item: %w", err)
	}

	return created, nil
}

func (r *compensationItemRepository) GetByID(ctx context.Context, id string, companyID string) (compensation.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + itemColumns + `
		FROM compensation_items
		WHERE id = $1 AND company_id = $2
	`

	item, err := scanItem(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return compensation.Item{}, compensation.ErrItemNotFound
		}
		return compensation.Item{}, fmt.Errorf("failed to get compensation item: %w", err)
	}

	return item, nil
}

func (r *compensationItemRepository) ListByKind(ctx context.Context, companyID string, kind compensation.Kind, activeOnly bool) ([]compensation.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + itemColumns + `
		FROM compensation_items
		WHERE company_id = $1 AND kind = $2
	`
	if activeOnly {
		query += " AND status = 'active'"
	}
	query += " ORDER BY created_at ASC"

	rows, err := q.Query(ctx, query, companyID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list compensation items: %w", err)
	}
	defer rows.Close()

	var items []compensation.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compensation item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *compensationItemRepository) Update(ctx context.Context, companyID string, req compensation.UpdateItemRequest) error {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{"updated_at = NOW()"}
	args := []any{req.ID, companyID}

	addSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Amount != nil {
		addSet("amount", *req.Amount)
	}
	if req.Taxable != nil {
		addSet("taxable", *req.Taxable)
	}
	if req.EndDate != nil {
		endDate, _ := validator.IsValidDate(*req.EndDate)
		addSet("end_date", endDate)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}
	if req.Frequency != nil {
		addSet("frequency", *req.Frequency)
	}

	query := fmt.Sprintf(`
		UPDATE compensation_items
		SET %s
		WHERE id = $1 AND company_id = $2
	`, strings.Join(setClauses, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update compensation item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return compensation.ErrItemNotFound
	}
	return nil
}

func (r *compensationItemRepository) Deactivate(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE compensation_items
		SET status = 'inactive', updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to deactivate compensation item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return compensation.ErrItemNotFound
	}
	return nil
}

func (r *compensationItemRepository) MarkUsed(ctx context.Context, id string, usageVersion int64, usedAt time.Time, payrollID string) error {
	q := GetQuerier(ctx, r.db)

	// Conditional update on usage_version: a concurrent run that consumed
	// the item first bumps the version and this update touches zero rows.
	query := `
		UPDATE compensation_items
		SET is_used = true,
			usage_count = usage_count + 1,
			last_used_date = $3,
			last_used_in_payroll_id = NULLIF($4, ''),
			usage_version = usage_version + 1,
			updated_at = NOW()
		WHERE id = $1 AND usage_version = $2
	`

	tag, err := q.Exec(ctx, query, id, usageVersion, usedAt, payrollID)
	if err != nil {
		return fmt.Errorf("failed to mark compensation item used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return compensation.ErrUsageConflict
	}
	return nil
}

func (r *compensationItemRepository) RestoreUsage(ctx context.Context, snapshot compensation.Item) error {
	q := GetQuerier(ctx, r.db)

	// The expected version is the one MarkUsed produced from this snapshot.
	// Another writer in between bumps it further and the restore touches
	// zero rows.
	query := `
		UPDATE compensation_items
		SET is_used = $2,
			usage_count = $3,
			last_used_date = $4,
			last_used_in_payroll_id = $5,
			usage_version = usage_version + 1,
			updated_at = NOW()
		WHERE id = $1 AND usage_version = $6
	`

	tag, err := q.Exec(ctx, query,
		snapshot.ID, snapshot.IsUsed, snapshot.UsageCount,
		snapshot.LastUsedDate, snapshot.LastUsedInPayrollID, snapshot.UsageVersion+1,
	)
	if err != nil {
		return fmt.Errorf("failed to restore compensation item usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return compensation.ErrUsageConflict
	}
	return nil
}

func (r *compensationItemRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE compensation_items
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date IS NOT NULL AND end_date < $1
	`

	tag, err := q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire compensation items: %w", err)
	}
	return tag.RowsAffected(), nil
}

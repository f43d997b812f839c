package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type auditEventRepository struct {
	db *database.DB
}

func NewAuditEventRepository(db *database.DB) audit.EventRepository {
	return &auditEventRepository{db: db}
}

func (r *auditEventRepository) Record(ctx context.Context, event audit.Event) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_events (
			id, company_id, actor_id, action, entity_type, entity_id, detail
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		event.ID, event.CompanyID, event.ActorID, event.Action,
		event.EntityType, event.EntityID, []byte(event.Detail),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

func (r *auditEventRepository) List(ctx context.Context, companyID string, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"company_id = $1"}
	args := []any{companyID}

	addWhere := func(clause string, value any) {
		args = append(args, value)
		whereClauses = append(whereClauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Action != "" {
		addWhere("action = $%d", filter.Action)
	}
	if filter.EntityType != "" {
		addWhere("entity_type = $%d", filter.EntityType)
	}
	if filter.ActorID != "" {
		addWhere("actor_id = $%d", filter.ActorID)
	}

	query := fmt.Sprintf(`
		SELECT id, company_id, actor_id, action, entity_type, entity_id, detail, created_at
		FROM audit_events
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(whereClauses, " AND "), len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e      audit.Event
			detail []byte
		)
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.Detail = detail
		events = append(events, e)
	}
	return events, rows.Err()
}

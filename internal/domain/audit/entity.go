package audit

import (
	"encoding/json"
	"time"
)

// Audit actions emitted by the payroll engine.
const (
	ActionItemConsumed    = "compensation_item.consumed"
	ActionPayrollCommit   = "payroll.batch_committed"
	ActionGradeLocked     = "salary_grade.locked"
	ActionBracketsReplace = "tax_brackets.replaced"
)

// Event - One immutable audit trail entry.
type Event struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	ActorID    string          `json:"actor_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorID    string
}

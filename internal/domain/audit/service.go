package audit

import "context"

// EventService exposes the read side of the audit trail.
type EventService interface {
	ListEvents(ctx context.Context, companyID string, filter Filter, page, limit int) ([]Event, error)
}

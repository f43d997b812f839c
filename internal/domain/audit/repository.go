package audit

import "context"

// EventRepository defines access to the append-only audit trail. Events are
// never updated or deleted.
type EventRepository interface {
	Record(ctx context.Context, event Event) error
	List(ctx context.Context, companyID string, filter Filter, limit, offset int) ([]Event, error)
}

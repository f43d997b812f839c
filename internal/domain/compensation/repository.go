package compensation

import (
	"context"
	"time"
)

// ItemRepository defines data access for the three compensation item pools.
// All methods include companyID to prevent cross-company data access.
type ItemRepository interface {
	Create(ctx context.Context, item Item) (Item, error)
	GetByID(ctx context.Context, id string, companyID string) (Item, error)
	ListByKind(ctx context.Context, companyID string, kind Kind, activeOnly bool) ([]Item, error)
	Update(ctx context.Context, companyID string, req UpdateItemRequest) error
	Deactivate(ctx context.Context, id string, companyID string) error

	// MarkUsed flips the usage-tracking fields of an item with a
	// compare-and-swap on usageVersion. It returns ErrUsageConflict when the
	// version no longer matches, so concurrent commits cannot double-consume
	// an item.
	MarkUsed(ctx context.Context, id string, usageVersion int64, usedAt time.Time, payrollID string) error

	// RestoreUsage reverts a MarkUsed call by writing the snapshot's usage
	// fields back. The row must still carry the version produced by marking
	// the snapshot; otherwise ErrUsageConflict is returned.
	RestoreUsage(ctx context.Context, snapshot Item) error

	// ExpireOverdue transitions active items whose end date has passed to
	// expired, returning how many rows changed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

package compensation

import (
	"context"
	"time"
)

// CompensationService defines business logic for the three item pools.
type CompensationService interface {
	CreateItem(ctx context.Context, companyID string, req CreateItemRequest) (ItemResponse, error)
	GetItem(ctx context.Context, id string, companyID string) (ItemResponse, error)
	ListItems(ctx context.Context, companyID string, kind Kind, activeOnly bool) ([]ItemResponse, error)
	UpdateItem(ctx context.Context, companyID string, req UpdateItemRequest) (ItemResponse, error)
	DeactivateItem(ctx context.Context, id string, companyID string) error

	// ExpireOverdueItems transitions active items past their end date to
	// expired. Run periodically by the scheduler.
	ExpireOverdueItems(ctx context.Context, now time.Time) (int64, error)
}

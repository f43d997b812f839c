package audit

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
)

type EventServiceImpl struct {
	eventRepo audit.EventRepository
}

func NewEventService(eventRepo audit.EventRepository) audit.EventService {
	return &EventServiceImpl{eventRepo: eventRepo}
}

func (s *EventServiceImpl) ListEvents(ctx context.Context, companyID string, filter audit.Filter, page, limit int) ([]audit.Event, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	events, err := s.eventRepo.List(ctx, companyID, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}

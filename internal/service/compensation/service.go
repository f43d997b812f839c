package compensation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
)

type CompensationServiceImpl struct {
	itemRepo compensation.ItemRepository
	logger   *slog.Logger
}

func NewCompensationService(itemRepo compensation.ItemRepository, logger *slog.Logger) compensation.CompensationService {
	return &CompensationServiceImpl{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (s *CompensationServiceImpl) CreateItem(ctx context.Context, companyID string, req compensation.CreateItemRequest) (compensation.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.ItemResponse{}, err
	}

	item, err := req.ToItem(companyID)
	if err != nil {
		return compensation.ItemResponse{}, err
	}
	item.ID = uuid.NewString()

	created, err := s.itemRepo.Create(ctx, item)
	if err != nil {
		return compensation.ItemResponse{}, err
	}
	return compensation.ToItemResponse(created), nil
}

func (s *CompensationServiceImpl) GetItem(ctx context.Context, id string, companyID string) (compensation.ItemResponse, error) {
	item, err := s.itemRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return compensation.ItemResponse{}, err
	}
	return compensation.ToItemResponse(item), nil
}

func (s *CompensationServiceImpl) ListItems(ctx context.Context, companyID string, kind compensation.Kind, activeOnly bool) ([]compensation.ItemResponse, error) {
	items, err := s.itemRepo.ListByKind(ctx, companyID, kind, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]compensation.ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, compensation.ToItemResponse(item))
	}
	return responses, nil
}

func (s *CompensationServiceImpl) UpdateItem(ctx context.Context, companyID string, req compensation.UpdateItemRequest) (compensation.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.ItemResponse{}, err
	}

	// PAYE never carries a stored amount, whatever the update says.
	current, err := s.itemRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return compensation.ItemResponse{}, err
	}
	if current.IsPAYE() && req.Amount != nil {
		return compensation.ItemResponse{}, compensation.ErrPAYENotStorable
	}

	if err := s.itemRepo.Update(ctx, companyID, req); err != nil {
		return compensation.ItemResponse{}, err
	}

	updated, err := s.itemRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return compensation.ItemResponse{}, err
	}
	return compensation.ToItemResponse(updated), nil
}

func (s *CompensationServiceImpl) DeactivateItem(ctx context.Context, id string, companyID string) error {
	return s.itemRepo.Deactivate(ctx, id, companyID)
}

func (s *CompensationServiceImpl) ExpireOverdueItems(ctx context.Context, now time.Time) (int64, error) {
	expired, err := s.itemRepo.ExpireOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.logger.Info("expired overdue compensation items", "count", expired)
	}
	return expired, nil
}

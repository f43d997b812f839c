package compensation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
)

const companyID = "018f0000-0000-7000-8000-0000000000c0"

type fakeItemRepo struct {
	items map[string]compensation.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]compensation.Item)}
}

func (f *fakeItemRepo) Create(_ context.Context, item compensation.Item) (compensation.Item, error) {
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string, companyID string) (compensation.Item, error) {
	item, ok := f.items[id]
	if !ok || item.CompanyID != companyID {
		return compensation.Item{}, compensation.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeItemRepo) ListByKind(_ context.Context, companyID string, kind compensation.Kind, activeOnly bool) ([]compensation.Item, error) {
	var out []compensation.Item
	for _, item := range f.items {
		if item.CompanyID != companyID || item.Kind != kind {
			continue
		}
		if activeOnly && item.Status != compensation.StatusActive {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeItemRepo) Update(_ context.Context, companyID string, req compensation.UpdateItemRequest) error {
	item, ok := f.items[req.ID]
	if !ok || item.CompanyID != companyID {
		return compensation.ErrItemNotFound
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Amount != nil {
		item.Amount = req.Amount
	}
	if req.Taxable != nil {
		item.Taxable = *req.Taxable
	}
	if req.Status != nil {
		item.Status = compensation.Status(*req.Status)
	}
	f.items[req.ID] = item
	return nil
}

func (f *fakeItemRepo) Deactivate(_ context.Context, id string, companyID string) error {
	item, ok := f.items[id]
	if !ok || item.CompanyID != companyID {
		return compensation.ErrItemNotFound
	}
	item.Status = compensation.StatusInactive
	f.items[id] = item
	return nil
}

func (f *fakeItemRepo) MarkUsed(_ context.Context, id string, usageVersion int64, usedAt time.Time, payrollID string) error {
	item, ok := f.items[id]
	if !ok {
		return compensation.ErrItemNotFound
	}
	if item.UsageVersion != usageVersion {
		return compensation.ErrUsageConflict
	}
	item.IsUsed = true
	item.UsageCount++
	item.LastUsedDate = &usedAt
	item.UsageVersion++
	f.items[id] = item
	return nil
}

func (f *fakeItemRepo) RestoreUsage(_ context.Context, snapshot compensation.Item) error {
	item, ok := f.items[snapshot.ID]
	if !ok {
		return compensation.ErrItemNotFound
	}
	if item.UsageVersion != snapshot.UsageVersion+1 {
		return compensation.ErrUsageConflict
	}
	item.IsUsed = snapshot.IsUsed
	item.UsageCount = snapshot.UsageCount
	item.LastUsedDate = snapshot.LastUsedDate
	item.LastUsedInPayrollID = snapshot.LastUsedInPayrollID
	item.UsageVersion++
	f.items[snapshot.ID] = item
	return nil
}

func (f *fakeItemRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for id, item := range f.items {
		if item.Status == compensation.StatusActive && item.EndDate != nil && item.EndDate.Before(now) {
			item.Status = compensation.StatusExpired
			f.items[id] = item
			count++
		}
	}
	return count, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func allowanceRequest() compensation.CreateItemRequest {
	amount := decimal.NewFromInt(50_000)
	return compensation.CreateItemRequest{
		Kind:            string(compensation.KindAllowance),
		Name:            "Performance Allowance",
		Category:        "performance",
		Scope:           string(compensation.ScopeCompany),
		CalculationType: string(compensation.CalculationTypeFixed),
		Amount:          &amount,
		Frequency:       string(compensation.FrequencyMonthly),
		StartDate:       "2025-01-01",
	}
}

func TestCreateItem_DefaultsTaxability(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewCompensationService(repo, testLogger())

	resp, err := svc.CreateItem(context.Background(), companyID, allowanceRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.Taxable, "performance allowances default to taxable")

	transport := allowanceRequest()
	transport.Name = "Transport Allowance"
	transport.Category = "transport"
	resp, err = svc.CreateItem(context.Background(), companyID, transport)
	require.NoError(t, err)
	assert.False(t, resp.Taxable, "transport allowances default to non-taxable")
}

func TestCreateItem_PAYEHasNoStoredAmount(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewCompensationService(repo, testLogger())

	req := compensation.CreateItemRequest{
		Kind:      string(compensation.KindDeduction),
		Name:      "PAYE",
		Category:  compensation.CategoryPAYE,
		Scope:     string(compensation.ScopeCompany),
		Frequency: string(compensation.FrequencyMonthly),
		StartDate: "2025-01-01",
	}

	resp, err := svc.CreateItem(context.Background(), companyID, req)
	require.NoError(t, err)
	assert.Nil(t, resp.Amount)
	assert.Equal(t, string(compensation.CalculationTypeTaxBrackets), resp.CalculationType)
	assert.Equal(t, string(compensation.DeductionTypeStatutory), resp.DeductionType)

	amount := decimal.NewFromInt(10_000)
	req.Amount = &amount
	_, err = svc.CreateItem(context.Background(), companyID, req)
	assert.Error(t, err, "a stored PAYE amount must be rejected")
}

func TestUpdateItem_PAYEAmountRejected(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewCompensationService(repo, testLogger())

	resp, err := svc.CreateItem(context.Background(), companyID, compensation.CreateItemRequest{
		Kind:      string(compensation.KindDeduction),
		Name:      "PAYE",
		Category:  compensation.CategoryPAYE,
		Scope:     string(compensation.ScopeCompany),
		Frequency: string(compensation.FrequencyMonthly),
		StartDate: "2025-01-01",
	})
	require.NoError(t, err)

	amount := decimal.NewFromInt(5_000)
	_, err = svc.UpdateItem(context.Background(), companyID, compensation.UpdateItemRequest{ID: resp.ID, Amount: &amount})
	assert.ErrorIs(t, err, compensation.ErrPAYENotStorable)

	name := "Statutory Income Tax"
	updated, err := svc.UpdateItem(context.Background(), companyID, compensation.UpdateItemRequest{ID: resp.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
}

func TestDeactivateItem(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewCompensationService(repo, testLogger())

	resp, err := svc.CreateItem(context.Background(), companyID, allowanceRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateItem(context.Background(), resp.ID, companyID))

	active, err := svc.ListItems(context.Background(), companyID, compensation.KindAllowance, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListItems(context.Background(), companyID, compensation.KindAllowance, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestExpireOverdueItems(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewCompensationService(repo, testLogger())

	ending := allowanceRequest()
	endDate := "2025-06-30"
	ending.EndDate = &endDate
	_, err := svc.CreateItem(context.Background(), companyID, ending)
	require.NoError(t, err)

	openEnded := allowanceRequest()
	openEnded.Name = "Open Ended Allowance"
	_, err = svc.CreateItem(context.Background(), companyID, openEnded)
	require.NoError(t, err)

	count, err := svc.ExpireOverdueItems(context.Background(), time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	active, err := svc.ListItems(context.Background(), companyID, compensation.KindAllowance, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Open Ended Allowance", active[0].Name)
}

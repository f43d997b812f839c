package tax

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
	"github.com/cmlabs-hris/payroll-engine-go/internal/fixtures"
)

const (
	companyID = "018f0000-0000-7000-8000-0000000000c0"
	actorID   = "018f0000-0000-7000-8000-0000000000d1"
)

type fakeBracketRepo struct {
	brackets map[string][]tax.Bracket
}

func newFakeBracketRepo() *fakeBracketRepo {
	return &fakeBracketRepo{brackets: make(map[string][]tax.Bracket)}
}

func (f *fakeBracketRepo) ListByCompany(_ context.Context, companyID string) ([]tax.Bracket, error) {
	return f.brackets[companyID], nil
}

func (f *fakeBracketRepo) ReplaceAll(_ context.Context, companyID string, brackets []tax.Bracket) ([]tax.Bracket, error) {
	f.brackets[companyID] = brackets
	return brackets, nil
}

type fakeAuditRepo struct {
	events []audit.Event
}

func (f *fakeAuditRepo) Record(_ context.Context, event audit.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ string, _ audit.Filter, _, _ int) ([]audit.Event, error) {
	return f.events, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func dp(v int64) *decimal.Decimal {
	dec := decimal.NewFromInt(v)
	return &dec
}

func twoBandRequest() tax.ReplaceBracketsRequest {
	return tax.ReplaceBracketsRequest{
		Brackets: []tax.BracketInput{
			{Order: 1, MinAmount: d(0), MaxAmount: dp(300_000), TaxRate: d(7), AdditionalTax: d(0)},
			{Order: 2, MinAmount: d(300_000), MaxAmount: nil, TaxRate: d(11), AdditionalTax: d(21_000)},
		},
	}
}

func TestReplaceBrackets(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	auditRepo := &fakeAuditRepo{}
	svc := NewTaxService(bracketRepo, auditRepo, testLogger())

	replaced, err := svc.ReplaceBrackets(context.Background(), companyID, actorID, twoBandRequest())
	require.NoError(t, err)
	require.Len(t, replaced, 2)
	assert.Equal(t, 1, replaced[0].Order)
	assert.Nil(t, replaced[1].MaxAmount)

	listed, err := svc.ListBrackets(context.Background(), companyID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	require.Len(t, auditRepo.events, 1)
	assert.Equal(t, audit.ActionBracketsReplace, auditRepo.events[0].Action)
	assert.Equal(t, actorID, auditRepo.events[0].ActorID)
}

func TestReplaceBrackets_GapRejected(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	svc := NewTaxService(bracketRepo, &fakeAuditRepo{}, testLogger())

	req := twoBandRequest()
	req.Brackets[1].MinAmount = d(400_000)

	_, err := svc.ReplaceBrackets(context.Background(), companyID, actorID, req)
	assert.ErrorIs(t, err, tax.ErrBracketGap)
	assert.Empty(t, bracketRepo.brackets[companyID], "a rejected table must not replace the current one")
}

func TestReplaceBrackets_WrongAdditionalTaxRejected(t *testing.T) {
	svc := NewTaxService(newFakeBracketRepo(), &fakeAuditRepo{}, testLogger())

	req := twoBandRequest()
	req.Brackets[1].AdditionalTax = d(99)

	_, err := svc.ReplaceBrackets(context.Background(), companyID, actorID, req)
	assert.ErrorIs(t, err, tax.ErrInvalidAdditionalTax)
}

func TestDefaultBracketsAreValid(t *testing.T) {
	defaults := fixtures.DefaultTaxBrackets(companyID)
	require.NoError(t, tax.ValidateBrackets(defaults))
	assert.Len(t, defaults, 6)
	assert.Nil(t, defaults[len(defaults)-1].MaxAmount)
}

package tax

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

type TaxServiceImpl struct {
	bracketRepo tax.BracketRepository
	auditRepo   audit.EventRepository
	logger      *slog.Logger
}

func NewTaxService(bracketRepo tax.BracketRepository, auditRepo audit.EventRepository, logger *slog.Logger) tax.TaxService {
	return &TaxServiceImpl{
		bracketRepo: bracketRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

func (s *TaxServiceImpl) ListBrackets(ctx context.Context, companyID string) ([]tax.BracketResponse, error) {
	brackets, err := s.bracketRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toBracketResponses(brackets), nil
}

func (s *TaxServiceImpl) ReplaceBrackets(ctx context.Context, companyID string, actorID string, req tax.ReplaceBracketsRequest) ([]tax.BracketResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	replaced, err := s.bracketRepo.ReplaceAll(ctx, companyID, req.ToBrackets(companyID))
	if err != nil {
		return nil, err
	}

	detail, err := json.Marshal(req.Brackets)
	if err == nil {
		if err := s.auditRepo.Record(ctx, audit.Event{
			ID:         uuid.NewString(),
			CompanyID:  companyID,
			ActorID:    actorID,
			Action:     audit.ActionBracketsReplace,
			EntityType: "tax_bracket_table",
			EntityID:   companyID,
			Detail:     detail,
		}); err != nil {
			s.logger.Error("failed to record audit event", "action", audit.ActionBracketsReplace, "error", err)
		}
	}

	return toBracketResponses(replaced), nil
}

func toBracketResponses(brackets []tax.Bracket) []tax.BracketResponse {
	out := make([]tax.BracketResponse, 0, len(brackets))
	for _, b := range brackets {
		out = append(out, tax.BracketResponse{
			ID:            b.ID,
			Order:         b.Order,
			MinAmount:     b.MinAmount,
			MaxAmount:     b.MaxAmount,
			TaxRate:       b.TaxRate,
			AdditionalTax: b.AdditionalTax,
		})
	}
	return out
}

package tax

import "context"

// TaxService defines business logic for the progressive tax table.
type TaxService interface {
	ListBrackets(ctx context.Context, companyID string) ([]BracketResponse, error)

	// ReplaceBrackets swaps the company's bracket table after validating that
	// the new set partitions annualized income without gaps.
	ReplaceBrackets(ctx context.Context, companyID string, actorID string, req ReplaceBracketsRequest) ([]BracketResponse, error)
}

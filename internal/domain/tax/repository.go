package tax

import "context"

// BracketRepository defines data access for the progressive tax table.
type BracketRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]Bracket, error)
	// ReplaceAll swaps the company's bracket table atomically. The caller is
	// expected to have validated the partition first.
	ReplaceAll(ctx context.Context, companyID string, brackets []Bracket) ([]Bracket, error)
}

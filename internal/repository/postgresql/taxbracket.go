package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type taxBracketRepository struct {
	db *database.DB
}

func NewTaxBracketRepository(db *database.DB) tax.BracketRepository {
	return &taxBracketRepository{db: db}
}

const bracketColumns = `
	id, company_id, "order", min_amount, max_amount, tax_rate, additional_tax,
	created_at, updated_at
`

func scanBracket(row pgx.Row) (tax.Bracket, error) {
	var b tax.Bracket
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.Order, &b.MinAmount, &b.MaxAmount, &b.TaxRate, &b.AdditionalTax,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *taxBracketRepository) ListByCompany(ctx context.Context, companyID string) ([]tax.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bracketColumns + `
		FROM tax_brackets
		WHERE company_id = $1
		ORDER BY "order" ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []tax.Bracket
	for rows.Next() {
		b, err := scanBracket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	return brackets, rows.Err()
}

func (r *taxBracketRepository) ReplaceAll(ctx context.Context, companyID string, brackets []tax.Bracket) ([]tax.Bracket, error) {
	var replaced []tax.Bracket

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM tax_brackets WHERE company_id = $1`, companyID); err != nil {
			return fmt.Errorf("failed to clear tax brackets: %w", err)
		}

		query := `
			INSERT INTO tax_brackets (
				id, company_id, "order", min_amount, max_amount, tax_rate, additional_tax
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + bracketColumns + `
		`

		for _, b := range brackets {
			id := b.ID
			if id == "" {
				id = uuid.NewString()
			}
			inserted, err := scanBracket(q.QueryRow(txCtx, query,
				id, companyID, b.Order, b.MinAmount, b.MaxAmount, b.TaxRate, b.AdditionalTax,
			))
			if err != nil {
				return fmt.Errorf("failed to insert tax bracket: %w", err)
			}
			replaced = append(replaced, inserted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return replaced, nil
}

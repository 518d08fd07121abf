package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/storage"
)

// Constant returns a named statutory figure for the tax year.
// A missing row wraps storage.ErrConstantNotFound: computations must not
// proceed with a defaulted value.
func (s *SQLiteStore) Constant(ctx context.Context, year models.TaxYear, name string) (decimal.Decimal, error) {
	query := `
		SELECT value FROM tax_year_constants
		WHERE tax_year = ? AND name = ?
	`
	var value string
	err := s.db.QueryRowContext(ctx, query, string(year), name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: %q for %s", storage.ErrConstantNotFound, name, year)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get constant %q: %w", name, err)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid constant %q value %q: %w", name, value, err)
	}
	return d, nil
}

// SetConstant inserts or replaces a statutory figure for the tax year.
func (s *SQLiteStore) SetConstant(ctx context.Context, year models.TaxYear, name string, value decimal.Decimal) error {
	query := `
		INSERT INTO tax_year_constants (tax_year, name, value)
		VALUES (?, ?, ?)
		ON CONFLICT (tax_year, name) DO UPDATE SET value = excluded.value
	`
	_, err := s.db.ExecContext(ctx, query, string(year), name, value.String())
	if err != nil {
		return fmt.Errorf("failed to set constant %q: %w", name, err)
	}
	return nil
}

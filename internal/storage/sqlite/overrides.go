package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taxfolk/selfassess/internal/models"
)

// Override returns a manual per-person decision, or nil when none is
// configured. Absence is the normal case, not an error.
func (s *SQLiteStore) Override(ctx context.Context, personCode string, year models.TaxYear, name string) (*bool, error) {
	query := `
		SELECT value FROM overrides
		WHERE person_code = ? AND tax_year = ? AND name = ?
	`
	var value bool
	err := s.db.QueryRowContext(ctx, query, personCode, string(year), name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override %q: %w", name, err)
	}
	return &value, nil
}

// SetOverride inserts or replaces a manual decision.
func (s *SQLiteStore) SetOverride(ctx context.Context, personCode string, year models.TaxYear, name string, value bool) error {
	query := `
		INSERT INTO overrides (person_code, tax_year, name, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (person_code, tax_year, name) DO UPDATE SET value = excluded.value
	`
	_, err := s.db.ExecContext(ctx, query, personCode, string(year), name, value)
	if err != nil {
		return fmt.Errorf("failed to set override %q: %w", name, err)
	}
	return nil
}

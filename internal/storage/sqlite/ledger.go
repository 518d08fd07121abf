package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/money"
)

// AddTransactions inserts ledger rows, generating IDs where missing.
// All rows are inserted in a single transaction so a partial import
// never leaves the ledger in a half-written state.
func (s *SQLiteStore) AddTransactions(ctx context.Context, txns []models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transactions (id, tax_year, date, account, description, note, nett, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, t := range txns {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, query,
			t.ID,
			string(t.TaxYear),
			t.Date,
			t.Account,
			t.Description,
			t.Note,
			t.Nett.String(),
			t.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// SumByCategoryPrefix sums the nett amounts of rows whose category starts
// with prefix, rounded half-even to 2 decimal places. No matching rows
// sums to zero.
func (s *SQLiteStore) SumByCategoryPrefix(ctx context.Context, year models.TaxYear, prefix string) (decimal.Decimal, error) {
	query := `
		SELECT nett FROM transactions
		WHERE tax_year = ? AND category LIKE ? ESCAPE '\'
	`
	return s.sumNett(ctx, query, string(year), likePrefix(prefix))
}

// SumByCategory sums the nett amounts of rows whose category matches
// exactly, rounded half-even to 2 decimal places.
func (s *SQLiteStore) SumByCategory(ctx context.Context, year models.TaxYear, category string) (decimal.Decimal, error) {
	query := `
		SELECT nett FROM transactions
		WHERE tax_year = ? AND category = ?
	`
	return s.sumNett(ctx, query, string(year), category)
}

func (s *SQLiteStore) sumNett(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var nett string
		if err := rows.Scan(&nett); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan nett amount: %w", err)
		}
		d, err := decimal.NewFromString(nett)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid nett amount %q: %w", nett, err)
		}
		sum = sum.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return money.RoundLedger(sum), nil
}

// ListByCategoryPrefix returns the matching rows ordered by date.
func (s *SQLiteStore) ListByCategoryPrefix(ctx context.Context, year models.TaxYear, prefix string) ([]models.Transaction, error) {
	query := `
		SELECT id, tax_year, date, account, description, note, nett, category
		FROM transactions
		WHERE tax_year = ? AND category LIKE ? ESCAPE '\'
		ORDER BY date, id
	`
	rows, err := s.db.QueryContext(ctx, query, string(year), likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var year, nett string
		if err := rows.Scan(&t.ID, &year, &t.Date, &t.Account, &t.Description, &t.Note, &nett, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.TaxYear = models.TaxYear(year)
		t.Nett, err = decimal.NewFromString(nett)
		if err != nil {
			return nil, fmt.Errorf("invalid nett amount %q: %w", nett, err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// CountDistinctCategories counts distinct category strings matching the prefix.
func (s *SQLiteStore) CountDistinctCategories(ctx context.Context, year models.TaxYear, prefix string) (int, error) {
	query := `
		SELECT COUNT(DISTINCT category) FROM transactions
		WHERE tax_year = ? AND category LIKE ? ESCAPE '\'
	`
	var count int
	err := s.db.QueryRowContext(ctx, query, string(year), likePrefix(prefix)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// DistinctCategories returns the distinct category strings matching the
// prefix, ordered lexically.
func (s *SQLiteStore) DistinctCategories(ctx context.Context, year models.TaxYear, prefix string) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM transactions
		WHERE tax_year = ? AND category LIKE ? ESCAPE '\'
		ORDER BY category
	`
	rows, err := s.db.QueryContext(ctx, query, string(year), likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}
